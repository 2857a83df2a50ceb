package hello

import "context"

// DefaultMessage は App が常に保持する挨拶文です。
const DefaultMessage = "Hello ACiD World!"

// App は固定の挨拶文を保持する値オブジェクトです。生成後は不変です。
type App struct {
	message string
}

// NewApp は挨拶文を設定済みの App を生成します。失敗することはありません。
func NewApp() *App {
	return &App{message: DefaultMessage}
}

// Message は保持している挨拶文を返します。
func (a *App) Message() string {
	return a.message
}

// Greeter は挨拶文を生成するユースケースのインターフェースを定義します。
type Greeter interface {
	// SayHello は呼び出し元へ返却するメッセージを生成します。
	SayHello(ctx context.Context) (string, error)
}

// Service は Greeter ユースケースのデフォルト実装です。
type Service struct {
	app *App
}

// NewService は Greeter ユースケースの新しいインスタンスを返します。
func NewService() *Service {
	return &Service{app: NewApp()}
}

// SayHello は App の挨拶文を返却します。エラーは発生しません。
func (s *Service) SayHello(ctx context.Context) (string, error) {
	return s.app.Message(), nil
}
