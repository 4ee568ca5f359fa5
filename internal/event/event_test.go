package event

import (
	"strings"
	"testing"
	"time"
)

func validActivity() Activity {
	size := int64(42)
	return Activity{
		Username:  "alice",
		SessionID: "s1",
		Type:      TypeEdit,
		Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		FileName:  "main.go",
		Language:  "go",
		ChangeSize: &size,
	}
}

func TestValidate_OK(t *testing.T) {
	a := validActivity()
	if err := Validate(&a); err != nil {
		t.Fatalf("expected valid activity, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	a := validActivity()
	a.Username = ""
	a.FileName = ""

	err := Validate(&a)
	if err == nil {
		t.Fatal("expected validation error")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := verr.Fields["username"]; !ok {
		t.Error("expected username in failing fields")
	}
	if _, ok := verr.Fields["fileName"]; !ok {
		t.Error("expected fileName in failing fields")
	}
	if len(verr.Fields) != 2 {
		t.Errorf("expected 2 failing fields, got %d", len(verr.Fields))
	}
}

func TestValidate_UnknownType(t *testing.T) {
	a := validActivity()
	a.Type = "scroll"

	err := Validate(&a)
	if err == nil {
		t.Fatal("expected validation error for unknown type")
	}
	if !strings.Contains(err.Error(), "scroll") {
		t.Errorf("error should name the offending type: %v", err)
	}
}

func TestValidate_ZeroTimestamp(t *testing.T) {
	a := validActivity()
	a.Timestamp = time.Time{}

	err := Validate(&a)
	if err == nil {
		t.Fatal("expected validation error for zero timestamp")
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeEdit, TypeFocus, TypeSave, TypeKeystroke, TypeClose, TypeOpen} {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if Type("paste").Valid() {
		t.Error("paste should not be valid")
	}
}

func TestConstructorsCarryOnlyTheirPayload(t *testing.T) {
	ctx := Context{FileName: "a.js", Language: "javascript"}
	at := time.Now()

	edit := NewEdit(ctx, at, 10)
	if edit.ChangeSize == nil || *edit.ChangeSize != 10 {
		t.Error("edit should carry changeSize")
	}
	if edit.FileSize != nil {
		t.Error("edit should not carry fileSize")
	}

	save := NewSave(ctx, at, 2048)
	if save.FileSize == nil || *save.FileSize != 2048 {
		t.Error("save should carry fileSize")
	}
	if save.ChangeSize != nil {
		t.Error("save should not carry changeSize")
	}

	focus := NewFocus(ctx, at)
	if focus.ChangeSize != nil || focus.FileSize != nil {
		t.Error("focus should carry no payload")
	}

	key := NewKeystroke(ctx, at, 120, 7)
	if key.CursorPosition == nil || *key.CursorPosition != 120 {
		t.Error("keystroke should carry cursorPosition")
	}
	if key.LineNumber == nil || *key.LineNumber != 7 {
		t.Error("keystroke should carry lineNumber")
	}
}

func TestChangeSizeOrZero(t *testing.T) {
	a := validActivity()
	if a.ChangeSizeOrZero() != 42 {
		t.Errorf("expected 42, got %d", a.ChangeSizeOrZero())
	}
	a.ChangeSize = nil
	if a.ChangeSizeOrZero() != 0 {
		t.Errorf("expected 0 for absent changeSize, got %d", a.ChangeSizeOrZero())
	}
}
