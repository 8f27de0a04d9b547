package helper

import "encoding/json"

/* =========================================================
   PatchField tri-state (Unset / Null / Set(value))
   ========================================================= */

type PatchField[T any] struct {
	Set   bool `json:"-"`
	Null  bool `json:"-"`
	Value *T   `json:"-"`
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Null = true
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// HasValue: field dikirim dan bukan null
func (p PatchField[T]) HasValue() bool { return p.Set && !p.Null && p.Value != nil }
