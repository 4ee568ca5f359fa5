// Package event defines the canonical activity event shape shared by the
// capture client, the ingestion boundary, and the aggregation engine.
package event

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Type identifies the editor action an activity records.
type Type string

// The closed set of activity types. Extending this set is a schema change.
const (
	TypeEdit      Type = "edit"
	TypeFocus     Type = "focus"
	TypeSave      Type = "save"
	TypeKeystroke Type = "keystroke"
	TypeClose     Type = "close"
	TypeOpen      Type = "open"
)

// Valid reports whether t is one of the recognized activity types.
func (t Type) Valid() bool {
	switch t {
	case TypeEdit, TypeFocus, TypeSave, TypeKeystroke, TypeClose, TypeOpen:
		return true
	}
	return false
}

// Activity is one captured editor action. Username, SessionID, Type,
// Timestamp and FileName are always required; the remaining fields are
// optional descriptive context. The numeric payload fields are pointers so
// that "absent" and "zero" stay distinguishable end to end: events are
// persisted exactly as received.
type Activity struct {
	Username  string    `json:"username"`
	SessionID string    `json:"sessionId"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	FileName  string    `json:"fileName"`

	FilePath      string `json:"filePath,omitempty"`
	Language      string `json:"language,omitempty"`
	ProjectFolder string `json:"projectFolder,omitempty"`
	Workspace     string `json:"workspace,omitempty"`

	// Type-specific payload.
	ChangeSize     *int64 `json:"changeSize,omitempty"`
	FileSize       *int64 `json:"fileSize,omitempty"`
	CursorPosition *int64 `json:"cursorPosition,omitempty"`
	LineNumber     *int64 `json:"lineNumber,omitempty"`
	CharacterCount *int64 `json:"characterCount,omitempty"`
}

// ChangeSizeOrZero returns the change size, treating absent as 0.
func (a *Activity) ChangeSizeOrZero() int64 {
	if a.ChangeSize == nil {
		return 0
	}
	return *a.ChangeSize
}

// Context carries the file-level fields common to every capture call.
type Context struct {
	FileName      string
	FilePath      string
	Language      string
	ProjectFolder string
	Workspace     string
}

// NewEdit builds an edit activity carrying the total size of the change.
func NewEdit(ctx Context, at time.Time, changeSize int64) Activity {
	a := newActivity(TypeEdit, ctx, at)
	a.ChangeSize = &changeSize
	return a
}

// NewSave builds a save activity carrying the saved file's size.
func NewSave(ctx Context, at time.Time, fileSize int64) Activity {
	a := newActivity(TypeSave, ctx, at)
	a.FileSize = &fileSize
	return a
}

// NewFocus builds a focus activity recording a switch to the file.
func NewFocus(ctx Context, at time.Time) Activity {
	return newActivity(TypeFocus, ctx, at)
}

// NewOpen builds an open activity.
func NewOpen(ctx Context, at time.Time) Activity {
	return newActivity(TypeOpen, ctx, at)
}

// NewClose builds a close activity.
func NewClose(ctx Context, at time.Time) Activity {
	return newActivity(TypeClose, ctx, at)
}

// NewKeystroke builds a keystroke activity carrying cursor position data.
func NewKeystroke(ctx Context, at time.Time, cursor, line int64) Activity {
	a := newActivity(TypeKeystroke, ctx, at)
	a.CursorPosition = &cursor
	a.LineNumber = &line
	return a
}

func newActivity(t Type, ctx Context, at time.Time) Activity {
	return Activity{
		Type:          t,
		Timestamp:     at,
		FileName:      ctx.FileName,
		FilePath:      ctx.FilePath,
		Language:      ctx.Language,
		ProjectFolder: ctx.ProjectFolder,
		Workspace:     ctx.Workspace,
	}
}

// ValidationError reports which fields of an activity failed validation.
// It is surfaced to the caller and never retried.
type ValidationError struct {
	Fields map[string]string // field name -> problem
}

// Error formats the failing fields in a stable order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid activity: " + strings.Join(parts, "; ")
}

// Validate checks a raw activity against the required-field invariants and
// the closed type enumeration. A failing event is rejected, never silently
// dropped.
func Validate(a *Activity) error {
	fields := make(map[string]string)

	if a.Username == "" {
		fields["username"] = "required"
	}
	if a.SessionID == "" {
		fields["sessionId"] = "required"
	}
	if a.Type == "" {
		fields["type"] = "required"
	} else if !a.Type.Valid() {
		fields["type"] = fmt.Sprintf("unrecognized type %q", a.Type)
	}
	if a.Timestamp.IsZero() {
		fields["timestamp"] = "required"
	}
	if a.FileName == "" {
		fields["fileName"] = "required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
