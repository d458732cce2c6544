package models

type EntityInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TypeID       int    `json:"typeId"`
	ReadableType string `json:"readableType"`
}

func (e EntityInfo) ResourceID() string   { return e.ID }
func (e EntityInfo) ResourceName() string { return e.Name }

type HierarchicalEntityCreateObject struct {
	Name     string   `json:"name"     yaml:"name"     validate:"required"`
	Children []string `json:"children" yaml:"children" validate:"required,min=1,dive,required"`
}

type ChildEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type HierarchicalEntityInfo struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	TypeID       int           `json:"typeId"`
	ReadableType string        `json:"readableType"`
	Children     []ChildEntity `json:"children"`
}

func (h HierarchicalEntityInfo) ResourceID() string   { return h.ID }
func (h HierarchicalEntityInfo) ResourceName() string { return h.Name }

// SubList is one canonical form of a closed list and its synonyms.
type SubList struct {
	CanonicalForm string   `json:"canonicalForm" yaml:"canonical_form" validate:"required"`
	List          []string `json:"list"          yaml:"list"`
}

// ClosedListCreateObject defines a closed-list entity. Canonical forms must be
// unique within the entity.
type ClosedListCreateObject struct {
	Name     string    `json:"name"     yaml:"name"      validate:"required"`
	SubLists []SubList `json:"subLists" yaml:"sub_lists" validate:"required,min=1,unique=CanonicalForm,dive"`
}

type ClosedListSubListInfo struct {
	ID            int      `json:"id"`
	CanonicalForm string   `json:"canonicalForm"`
	List          []string `json:"list"`
}

type ClosedListInfo struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	TypeID       int                     `json:"typeId"`
	ReadableType string                  `json:"readableType"`
	SubLists     []ClosedListSubListInfo `json:"subLists"`
}

func (c ClosedListInfo) ResourceID() string   { return c.ID }
func (c ClosedListInfo) ResourceName() string { return c.Name }

type PrebuiltEntityInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TypeID       int    `json:"typeId"`
	ReadableType string `json:"readableType"`
}

func (p PrebuiltEntityInfo) ResourceID() string   { return p.ID }
func (p PrebuiltEntityInfo) ResourceName() string { return p.Name }
