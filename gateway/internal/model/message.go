package model

type Message struct {
	ID        ID     `json:"id"`
	Subject   string `json:"asunto"`
	Content   string `json:"contenido"`
	SenderID  ID     `json:"emisor_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// MessageUser links a message to one receiver.
type MessageUser struct {
	MessageID  ID        `json:"mensaje_id"`
	ReceiverID ID        `json:"receptor_id"`
	Read       ReadState `json:"leido"`
	Archived   Flag      `json:"archivado"`
}

// InboxItem is a received message as the inbox renders it.
type InboxItem struct {
	Message    Message `json:"message"`
	SenderName string  `json:"senderName"`
	Read       bool    `json:"read"`
	Archived   bool    `json:"archived"`
}

type OutgoingMessage struct {
	Subject   string `json:"asunto" validate:"required"`
	Content   string `json:"contenido" validate:"required"`
	Receivers []ID   `json:"receptores" validate:"required,min=1"`
}
