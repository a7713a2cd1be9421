package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	compositions []model.Composition
	entities     []model.Entity
	calls        []string
}

func (f *fakeCatalog) ListCompositions(context.Context) ([]model.Composition, error) {
	return f.compositions, nil
}

func (f *fakeCatalog) CreateComposition(_ context.Context, in model.Composition) error {
	f.calls = append(f.calls, "create composition "+in.Title)
	return nil
}

func (f *fakeCatalog) UpdateComposition(_ context.Context, in model.Composition) error {
	f.calls = append(f.calls, "update composition "+in.ID.String())
	return nil
}

func (f *fakeCatalog) DeleteComposition(_ context.Context, id model.ID) error {
	f.calls = append(f.calls, "delete composition "+id.String())
	return nil
}

func (f *fakeCatalog) ListEntities(context.Context) ([]model.Entity, error) {
	return f.entities, nil
}

func (f *fakeCatalog) CreateEntity(_ context.Context, in model.Entity) error {
	f.calls = append(f.calls, "create entity "+in.Name)
	return nil
}

func (f *fakeCatalog) UpdateEntity(_ context.Context, in model.Entity) error {
	f.calls = append(f.calls, "update entity "+in.ID.String())
	return nil
}

func (f *fakeCatalog) DeleteEntity(_ context.Context, id model.ID) error {
	f.calls = append(f.calls, "delete entity "+id.String())
	return nil
}

func year(y int) *int { return &y }

func seeded() *fakeCatalog {
	return &fakeCatalog{
		compositions: []model.Composition{
			{ID: 1, Title: "Nuestro Padre Jesús", Composer: "Emilio Cebrián", Type: "marcha", Year: year(1935)},
			{ID: 2, Title: "amarguras", Composer: "Manuel Font de Anta", Type: "marcha", Year: year(1919)},
			{ID: 3, Title: "Paquito el chocolatero", Composer: "Gustavo Pascual", Type: "pasodoble", Notes: "fiestas, verano"},
		},
		entities: []model.Entity{
			{ID: 1, Name: "Hermandad del Carmen", Type: "hermandad", Contact: "Luis"},
			{ID: 2, Name: "Ayuntamiento", Type: "institucion", Email: "cultura@ayto.es"},
		},
	}
}

func TestService_Compositions(t *testing.T) {
	ctx := context.Background()
	s := NewService(zap.NewNop(), seeded(), nil)

	list, err := s.Compositions(ctx, Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, list.TotalElements)
	require.Equal(t, "amarguras", list.Items[0].Title)

	list, err = s.Compositions(ctx, Filter{Type: "MARCHA", Search: "font"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, model.ID(2), list.Items[0].ID)

	list, err = s.Compositions(ctx, Filter{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Items, 1)
}

func TestService_ExportCompositions(t *testing.T) {
	s := NewService(zap.NewNop(), seeded(), nil)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCompositions(context.Background(), &buf, Filter{Type: "pasodoble"}))
	require.Equal(t,
		"id,titulo,compositor,tipo,anio,url_partitura,notas\n"+
			"3,Paquito el chocolatero,Gustavo Pascual,pasodoble,,,\"fiestas, verano\"\n",
		buf.String())
}

func TestService_CatalogWrites(t *testing.T) {
	ctx := context.Background()
	f := seeded()
	s := NewService(zap.NewNop(), f, nil)

	require.True(t, errs.IsValidation(s.CreateComposition(ctx, model.Composition{})))
	require.True(t, errs.IsValidation(s.CreateComposition(ctx, model.Composition{Title: "X", ScoreURL: "not a url"})))
	require.True(t, errs.IsValidation(s.UpdateComposition(ctx, model.Composition{Title: "X"})))
	require.True(t, errs.IsValidation(s.CreateEntity(ctx, model.Entity{Name: "Y", Email: "bad"})))

	require.NoError(t, s.CreateComposition(ctx, model.Composition{Title: "Pasan los campanilleros"}))
	require.NoError(t, s.UpdateComposition(ctx, model.Composition{ID: 3, Title: "Paquito"}))
	require.NoError(t, s.DeleteComposition(ctx, 1))
	require.NoError(t, s.CreateEntity(ctx, model.Entity{Name: "Peña"}))
	require.NoError(t, s.UpdateEntity(ctx, model.Entity{ID: 2, Name: "Ayto"}))
	require.NoError(t, s.DeleteEntity(ctx, 1))
	require.Equal(t, []string{
		"create composition Pasan los campanilleros",
		"update composition 3",
		"delete composition 1",
		"create entity Peña",
		"update entity 2",
		"delete entity 1",
	}, f.calls)

	ents, err := s.Entities(ctx, Filter{Search: "cultura"})
	require.NoError(t, err)
	require.Len(t, ents.Items, 1)
	require.Equal(t, model.ID(2), ents.Items[0].ID)
}
