package domain

import (
	"context"
	"time"
)

// HistoryEntry は、セッション内で生成したレイアウトの履歴1件です
type HistoryEntry struct {
	Prompt      string    `json:"prompt"`
	Layout      Layout    `json:"layout"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// EditorSession は、ユーザーが編集中のデザインの状態を表します
type EditorSession struct {
	UserID    string         `json:"userId"`
	Prompt    string         `json:"prompt"`
	Format    Format         `json:"format"`
	Layout    Layout         `json:"layout"`
	Scene     *Scene         `json:"scene"`
	DesignID  string         `json:"designId,omitempty"`
	History   []HistoryEntry `json:"history"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewEditorSession は、生成したレイアウトから新しいEditorSessionを作成します
func NewEditorSession(userID, prompt string, layout Layout) *EditorSession {
	session := &EditorSession{UserID: userID}
	session.ApplyLayout(prompt, layout)
	return session
}

// ApplyLayout は、新しく生成したレイアウトをセッションに反映し、履歴に追加します。
// 保存済みデザインとの紐付けは解除されます
func (s *EditorSession) ApplyLayout(prompt string, layout Layout) {
	now := time.Now()
	s.Prompt = prompt
	s.Format = layout.Format
	s.Layout = layout
	s.Scene = NewSceneFromLayout(layout)
	s.DesignID = ""
	s.History = append(s.History, HistoryEntry{Prompt: prompt, Layout: layout, GeneratedAt: now})
	s.UpdatedAt = now
}

// OpenDesign は、保存済みデザインをセッションに読み込みます
func (s *EditorSession) OpenDesign(design Design) {
	s.Prompt = design.Prompt
	s.Format = design.Format
	s.Layout = design.Layout
	s.Scene = design.EditableScene()
	s.DesignID = design.ID
	s.UpdatedAt = time.Now()
}

// Touch は、セッションの更新日時を現在時刻にします
func (s *EditorSession) Touch() {
	s.UpdatedAt = time.Now()
}

// SessionStore は、ユーザーごとの編集セッションを保持するインターフェースです
type SessionStore interface {
	// Get は、ユーザーのセッションを取得します。存在しない場合は ErrNoEditorSession を返します
	Get(ctx context.Context, userID string) (*EditorSession, error)

	// Put は、ユーザーのセッションを保存します
	Put(ctx context.Context, session *EditorSession) error

	// Delete は、ユーザーのセッションを削除します
	Delete(ctx context.Context, userID string) error
}
