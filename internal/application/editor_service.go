package application

import (
	"context"
	"fmt"

	"posterforge/internal/domain"

	"github.com/charmbracelet/log"
)

// SceneEdit は、シーンに対する1つの編集操作です
type SceneEdit func(scene *domain.Scene) error

// EditorApplicationService は、ユーザーごとの編集セッションを制御するアプリケーションサービスです
type EditorApplicationService struct {
	sessions      domain.SessionStore
	designService *DesignApplicationService
}

// NewEditorApplicationService は新しいEditorApplicationServiceインスタンスを作成します
func NewEditorApplicationService(sessions domain.SessionStore, designService *DesignApplicationService) *EditorApplicationService {
	return &EditorApplicationService{
		sessions:      sessions,
		designService: designService,
	}
}

// Generate は、レイアウトを生成して依頼者の編集セッションに反映します
func (s *EditorApplicationService) Generate(ctx context.Context, request domain.DesignRequest) (*domain.EditorSession, error) {
	layout, err := s.designService.Generate(ctx, request)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, request.User.ID, request.Prompt, layout)
}

// Apply は、生成済みのレイアウトをユーザーの編集セッションに反映します
func (s *EditorApplicationService) Apply(ctx context.Context, userID, prompt string, layout domain.Layout) (*domain.EditorSession, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		session = domain.NewEditorSession(userID, prompt, layout)
	} else {
		session.ApplyLayout(prompt, layout)
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("編集セッションの保存に失敗: %w", err)
	}
	return session, nil
}

// Session は、ユーザーの編集セッションを取得します
func (s *EditorApplicationService) Session(ctx context.Context, userID string) (*domain.EditorSession, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("編集セッションの取得に失敗: %w", err)
	}
	return session, nil
}

// Edit は、編集中のシーンに操作を適用します。操作が失敗した場合、セッションは変更されません
func (s *EditorApplicationService) Edit(ctx context.Context, userID string, edit SceneEdit) (*domain.EditorSession, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}

	scene := session.Scene.Clone()
	if err := edit(scene); err != nil {
		return nil, err
	}
	session.Scene = scene
	session.Touch()

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("編集セッションの保存に失敗: %w", err)
	}
	return session, nil
}

// Save は、編集中のデザインを保存します。開いているデザインがあればそれを更新します
func (s *EditorApplicationService) Save(ctx context.Context, userID string) (domain.Design, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return domain.Design{}, err
	}

	design, err := s.designService.SaveDesign(ctx, userID, session.DesignID, session.Prompt, session.Layout, session.Scene)
	if err != nil {
		return domain.Design{}, err
	}

	session.DesignID = design.ID
	session.Touch()
	if err := s.sessions.Put(ctx, session); err != nil {
		log.Warn("編集セッションの更新に失敗しました", "user", userID, "err", err)
	}
	return design, nil
}

// Open は、保存済みのデザインを編集セッションに読み込みます
func (s *EditorApplicationService) Open(ctx context.Context, userID, designID string) (*domain.EditorSession, error) {
	design, err := s.designService.LoadDesign(ctx, userID, designID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		session = &domain.EditorSession{UserID: userID}
	}
	session.OpenDesign(design)

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("編集セッションの保存に失敗: %w", err)
	}
	return session, nil
}

// Export は、編集中のシーンをPNG画像にします。保存済みデザインを開いている場合はダウンロード数を1増やします
func (s *EditorApplicationService) Export(ctx context.Context, userID string) ([]byte, *domain.EditorSession, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	image, err := s.designService.RenderScene(session.Scene)
	if err != nil {
		return nil, nil, err
	}

	if session.DesignID != "" {
		s.designService.recordDownload(ctx, userID, session.DesignID)
	}
	return image, session, nil
}

// Close は、ユーザーの編集セッションを破棄します
func (s *EditorApplicationService) Close(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}
