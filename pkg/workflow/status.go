package workflow

import "otcdocs/models"

// SlotStatus is the resolved state of one catalog slot against a folder's
// uploaded documents.
type SlotStatus struct {
	Slot       SlotDefinition   `json:"slot"`
	Document   *models.Document `json:"document,omitempty"`
	IsUploaded bool             `json:"is_uploaded"`
	IsRequired bool             `json:"is_required"`
	Status     string           `json:"status"`
}

// ResolveSlot matches a slot type against a folder's documents. First match by
// type wins; duplicates are not expected but are not rejected. IsUploaded is
// true only when a match exists and its url is non-empty; status defaults to
// DRAFT when no document is found.
func ResolveSlot(category, slotType string, docs []models.Document) (SlotStatus, error) {
	slots, err := Catalog(category)
	if err != nil {
		return SlotStatus{}, err
	}
	var def *SlotDefinition
	for i := range slots {
		if slots[i].Type == slotType {
			def = &slots[i]
			break
		}
	}
	if def == nil {
		return SlotStatus{}, &ValidationError{Reason: "document type " + slotType + " does not belong to category " + category}
	}
	st := SlotStatus{Slot: *def, IsRequired: def.Required, Status: StatusDraft}
	for i := range docs {
		if docs[i].Type == slotType {
			st.Document = &docs[i]
			st.IsUploaded = docs[i].URL != ""
			st.Status = docs[i].Status
			break
		}
	}
	return st, nil
}

// ResolveSlots resolves the whole catalog of a category in order.
func ResolveSlots(category string, docs []models.Document) ([]SlotStatus, error) {
	slots, err := Catalog(category)
	if err != nil {
		return nil, err
	}
	out := make([]SlotStatus, 0, len(slots))
	for _, s := range slots {
		st, err := ResolveSlot(category, s.Type, docs)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
