package zakki

import (
	"io"
	"log/slog"

	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/pagecrypt"
)

// settings collects what options configure.
type settings struct {
	logger    *slog.Logger
	loader    assets.AssetLoader
	passwords *pagecrypt.PasswordSource
	encryptor *pagecrypt.Encryptor
	clean     bool
}

// Option configures a Renderer or a Builder.
type Option func(*settings)

// WithLogger sets the logger. Without it, output is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAssetLoader replaces the theme resolved from the config's themeDir.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(s *settings) {
		s.loader = l
	}
}

// WithPasswordSource sets where crypto pages get their password when their
// front matter has none. The default uses the config password only.
func WithPasswordSource(p *pagecrypt.PasswordSource) Option {
	return func(s *settings) {
		s.passwords = p
	}
}

// WithEncryptor replaces the page encryptor, e.g. to fix its IV source.
func WithEncryptor(e *pagecrypt.Encryptor) Option {
	return func(s *settings) {
		s.encryptor = e
	}
}

// WithClean makes Build empty the output directory first.
func WithClean(clean bool) Option {
	return func(s *settings) {
		s.clean = clean
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	if s.encryptor == nil {
		s.encryptor = pagecrypt.New()
	}
	return s
}
