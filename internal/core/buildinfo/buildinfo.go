package buildinfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Version はリリースバージョンです。ビルド時に -ldflags で上書きできます。
var Version = "1.0.0"

// Stages はパイプラインで完了済みのステージです。
var Stages = []string{"Build", "Test", "SonarQube", "Deploy"}

// Info はデプロイされたビルドの情報です。
type Info struct {
	Version     string
	BuildNumber string
	Environment string
	BuildDate   time.Time
	Stages      []string
}

// Title は表示用のアプリケーションタイトルを返します。
func (i Info) Title() string {
	return "ACiD Suite v" + i.Version
}

type envSpec struct {
	BuildNumber string `envconfig:"ACID_BUILD_NUMBER" default:"local"`
	Environment string `envconfig:"ACID_ENV" default:"development"`
	BuildDate   string `envconfig:"ACID_BUILD_DATE"`
}

// FromEnv は環境変数からビルド情報を構築します。ACID_BUILD_DATE が未設定なら now を使います。
func FromEnv(now time.Time) (Info, error) {
	var spec envSpec
	if err := envconfig.Process("", &spec); err != nil {
		return Info{}, fmt.Errorf("buildinfo: read env: %w", err)
	}

	buildDate := now.UTC()
	if raw := strings.TrimSpace(spec.BuildDate); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Info{}, fmt.Errorf("buildinfo: ACID_BUILD_DATE: %w", err)
		}
		buildDate = parsed.UTC()
	}

	stages := make([]string, len(Stages))
	copy(stages, Stages)

	return Info{
		Version:     Version,
		BuildNumber: spec.BuildNumber,
		Environment: spec.Environment,
		BuildDate:   buildDate,
		Stages:      stages,
	}, nil
}
