// Package edit stages at most one creation or edit draft and turns a valid
// draft into a service mutation.
package edit

// Field names an input on a draft.
type Field int

const (
	FieldName Field = iota
	FieldCount
	FieldShelf
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldCount:
		return "count"
	case FieldShelf:
		return "shelf"
	default:
		return "unknown"
	}
}

// Target is the draft being edited: NewShelf, NewItem, EditShelf, EditItem
// or EditSlot.
type Target interface {
	isTarget()
	Title() string
}

type NewShelf struct {
	Name  string
	Slots string
	Error string
}

type NewItem struct {
	ShelfID string
	Name    string
	Count   string
	Error   string
}

type EditShelf struct {
	ShelfID string
}

type EditItem struct {
	ShelfID string
	ItemID  string
}

type EditSlot struct {
	ShelfID string
	SlotID  string
}

func (NewShelf) isTarget()  {}
func (NewItem) isTarget()   {}
func (EditShelf) isTarget() {}
func (EditItem) isTarget()  {}
func (EditSlot) isTarget()  {}

func (NewShelf) Title() string    { return "New Shelf" }
func (NewItem) Title() string     { return "New Item" }
func (t EditShelf) Title() string { return "Editing shelf " + t.ShelfID }
func (t EditItem) Title() string  { return "Editing item " + t.ItemID + " in shelf " + t.ShelfID }
func (t EditSlot) Title() string  { return "Editing slot " + t.SlotID + " in shelf " + t.ShelfID }

// Fields lists the inputs a target accepts, in display order.
func Fields(t Target) []Field {
	switch t.(type) {
	case NewShelf:
		return []Field{FieldName, FieldCount}
	case NewItem:
		return []Field{FieldShelf, FieldName, FieldCount}
	default:
		return nil
	}
}

// Value reads a field from t. The second result is false when t has no such
// field.
func Value(t Target, f Field) (string, bool) {
	switch v := t.(type) {
	case NewShelf:
		switch f {
		case FieldName:
			return v.Name, true
		case FieldCount:
			return v.Slots, true
		}
	case NewItem:
		switch f {
		case FieldShelf:
			return v.ShelfID, true
		case FieldName:
			return v.Name, true
		case FieldCount:
			return v.Count, true
		}
	}
	return "", false
}

// ErrorMessage returns the validation error attached to t, if any.
func ErrorMessage(t Target) string {
	switch v := t.(type) {
	case NewShelf:
		return v.Error
	case NewItem:
		return v.Error
	}
	return ""
}
