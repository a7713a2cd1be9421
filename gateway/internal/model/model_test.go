package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadState_Normalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ReadState
	}{
		{name: "bool true", raw: `{"leido":true}`, want: Read},
		{name: "number 1", raw: `{"leido":1}`, want: Read},
		{name: "string 1", raw: `{"leido":"1"}`, want: Read},
		{name: "bool false", raw: `{"leido":false}`, want: Unread},
		{name: "number 0", raw: `{"leido":0}`, want: Unread},
		{name: "string 0", raw: `{"leido":"0"}`, want: Unread},
		{name: "absent", raw: `{}`, want: Unread},
		{name: "null", raw: `{"leido":null}`, want: Unread},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var link MessageUser
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &link))
			assert.Equal(t, tt.want, link.Read)
		})
	}

	assert.Equal(t, Read, NormalizeReadState(float64(1)))
	assert.Equal(t, Unread, NormalizeReadState(nil))
	assert.Equal(t, Unread, NormalizeReadState("0"))
}

func TestSerial_Unmarshal(t *testing.T) {
	var loans []Loan
	raw := `[{"num_serie":1234,"usuario_id":"7","fecha_devolucion":""},{"num_serie":"1234","usuario_id":8,"fecha_devolucion":"2024-01-02"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &loans))
	require.Len(t, loans, 2)
	assert.Equal(t, loans[0].Serial, loans[1].Serial)
	assert.Equal(t, ID(7), loans[0].UserID)
	assert.True(t, loans[0].Active())
	assert.False(t, loans[1].Active())

	var l Loan
	require.NoError(t, json.Unmarshal([]byte(`{"num_serie":"A-1","usuario_id":3,"fecha_devolucion":null}`), &l))
	assert.True(t, l.Active())
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	p := Paginate(items, 2, 5)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, p.TotalElements)

	p = Paginate(items, 9, 5)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []int{11, 12}, p.Items)

	empty := Paginate([]int{}, 1, 5)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestDay(t *testing.T) {
	assert.Equal(t, "2024-03-09", Day("2024-03-09T18:30:00.000000Z"))
	assert.Equal(t, "2024-03-09", Day("2024-03-09"))
	assert.Equal(t, "", Day(""))
}

func TestInstrument_WireNames(t *testing.T) {
	var in Instrument
	require.NoError(t, json.Unmarshal([]byte(`{"num_serie":77,"instrumento_tipo_id":"Tuba","estado":"disponible"}`), &in))
	require.Equal(t, Instrument{Serial: "77", TypeID: "Tuba", Status: InstrumentAvailable}, in)

	out, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"num_serie":"77","instrumento_tipo_id":"Tuba","estado":"disponible"}`, string(out))
}
