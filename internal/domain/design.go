package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// designTitleLength は、プロンプトからタイトルを作る際の最大文字数です
const designTitleLength = 50

// Design は、ユーザーが保存したデザインを表すエンティティです
type Design struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Prompt    string    `json:"prompt" bson:"prompt"`
	Format    Format    `json:"format" bson:"format"`
	Layout    Layout    `json:"layout" bson:"layout"`
	Scene     *Scene    `json:"scene,omitempty" bson:"scene,omitempty"`
	Downloads int       `json:"downloads" bson:"downloads"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewDesign は新しいDesignインスタンスを作成します。scene が nil の場合はLayoutから作成します
func NewDesign(userID, prompt string, layout Layout, scene *Scene) Design {
	if scene == nil {
		scene = NewSceneFromLayout(layout)
	}
	now := time.Now()
	return Design{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     DesignTitle(prompt),
		Prompt:    prompt,
		Format:    layout.Format,
		Layout:    layout,
		Scene:     scene,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DesignTitle は、プロンプトの先頭50文字をタイトルとして返します
func DesignTitle(prompt string) string {
	runes := []rune(strings.TrimSpace(prompt))
	if len(runes) > designTitleLength {
		runes = runes[:designTitleLength]
	}
	return string(runes)
}

// Update は、保存済みのデザインを新しいレイアウトとシーンで更新します
func (d *Design) Update(prompt string, layout Layout, scene *Scene) {
	if scene == nil {
		scene = NewSceneFromLayout(layout)
	}
	d.Title = DesignTitle(prompt)
	d.Prompt = prompt
	d.Format = layout.Format
	d.Layout = layout
	d.Scene = scene
	d.UpdatedAt = time.Now()
}

// EditableScene は、保存されたシーンがあればその複製を、なければレイアウトから作成したシーンを返します
func (d Design) EditableScene() *Scene {
	if d.Scene != nil {
		return d.Scene.Clone()
	}
	return NewSceneFromLayout(d.Layout)
}
