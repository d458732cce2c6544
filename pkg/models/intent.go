package models

// ModelCreateObject is the create payload for intents and simple entities.
type ModelCreateObject struct {
	Name string `json:"name"`
}

type IntentInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TypeID       int    `json:"typeId"`
	ReadableType string `json:"readableType"`
}

func (i IntentInfo) ResourceID() string   { return i.ID }
func (i IntentInfo) ResourceName() string { return i.Name }
