package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/jwt"
	"github.com/kbukum/corebundle/auth/password"
	"github.com/kbukum/corebundle/backend"
	"github.com/kbukum/corebundle/compiler"
	"github.com/kbukum/corebundle/crawl"
	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/fragment/element"
	"github.com/kbukum/corebundle/picker"
	"github.com/kbukum/corebundle/preview"
	"github.com/kbukum/corebundle/repository"
	"github.com/kbukum/corebundle/search"
	"github.com/kbukum/corebundle/server/middleware"
	"github.com/kbukum/corebundle/template"
)

// Service IDs of the built-in tagged services.
const (
	PagePickerProvider    = "contao.picker.page_provider"
	FilePickerProvider    = "contao.picker.file_provider"
	ArticlePickerProvider = "contao.picker.article_provider"
	MemberSwitchProvider  = "contao.frontend_preview.member_switch"
	DatabaseIndexer       = "contao.search.indexer.default"
)

// Bundle is the compiled service graph of the core bundle.
type Bundle struct {
	Container *di.Container
	Fragments *fragment.Registry
	Pipeline  *compiler.Pipeline
	Templates *template.Engine
}

// Models returns every model the bundle stores.
func Models() []interface{} {
	return append(repository.Models(), &search.Entry{})
}

// Declare registers the bundle's definitions on b. db may be nil when the
// container is never compiled, e.g. for debug commands.
func Declare(b *di.Builder, cfg *AppConfig, db *database.DB, fragments *fragment.Registry) error {
	if err := b.Set(di.Services.Config, cfg); err != nil {
		return err
	}
	if db != nil {
		if err := b.Set(di.Services.Database, db); err != nil {
			return err
		}
	}
	if err := b.Set(di.Services.FragmentRegistry, fragments); err != nil {
		return err
	}

	defs := []di.Definition{
		{
			ID: di.Services.Renderer,
			Factory: func(di.Resolver) (any, error) {
				return template.New(cfg.Templates)
			},
		},
		{
			ID: di.Services.Sanitizer,
			Factory: func(di.Resolver) (any, error) {
				return element.NewSanitizer(), nil
			},
		},

		// Repositories
		{
			ID: di.Services.Users,
			Factory: func(r di.Resolver) (any, error) {
				db, err := di.Resolve[*database.DB](r, di.Services.Database)
				if err != nil {
					return nil, err
				}
				return repository.NewUserRepository(db), nil
			},
		},
		{
			ID: di.Services.Members,
			Factory: func(r di.Resolver) (any, error) {
				db, err := di.Resolve[*database.DB](r, di.Services.Database)
				if err != nil {
					return nil, err
				}
				return repository.NewMemberRepository(db), nil
			},
		},
		{
			ID: di.Services.Versions,
			Factory: func(r di.Resolver) (any, error) {
				db, err := di.Resolve[*database.DB](r, di.Services.Database)
				if err != nil {
					return nil, err
				}
				return repository.NewVersionRepository(db), nil
			},
		},

		// Security
		{
			ID: di.Services.BackendTokens,
			Factory: func(di.Resolver) (any, error) {
				return jwt.NewService(&cfg.Auth.JWT, func() *auth.BackendClaims { return &auth.BackendClaims{} },
					jwt.WithTokenType(auth.TokenTypeBackend))
			},
		},
		{
			ID: di.Services.PreviewTokens,
			Factory: func(di.Resolver) (any, error) {
				return jwt.NewService(&cfg.Auth.JWT, func() *auth.PreviewClaims { return &auth.PreviewClaims{} },
					jwt.WithTokenType(auth.TokenTypePreview))
			},
		},
		{
			ID: di.Services.PasswordHasher,
			Factory: func(di.Resolver) (any, error) {
				return password.NewHasher(cfg.Auth.Password), nil
			},
		},

		// Picker
		{
			ID:   di.Services.PickerBuilder,
			Tags: []di.Tag{di.NewTag(picker.BuilderTag, "name", "default")},
			Factory: func(di.Resolver) (any, error) {
				return picker.NewProviderBuilder(backend.PathPicker), nil
			},
		},
		{
			ID: di.Services.PickerResolver,
			Factory: func(di.Resolver) (any, error) {
				return picker.NewResolver(cfg.Picker.Order), nil
			},
		},
		{
			ID:   PagePickerProvider,
			Tags: []di.Tag{di.NewTag(picker.ProviderTag, "priority", 192)},
			Factory: func(di.Resolver) (any, error) {
				return picker.Provider(picker.NewPageProvider(backend.PathBackend)), nil
			},
		},
		{
			ID:   FilePickerProvider,
			Tags: []di.Tag{di.NewTag(picker.ProviderTag, "priority", 160)},
			Factory: func(di.Resolver) (any, error) {
				return picker.Provider(picker.NewFileProvider(backend.PathBackend)), nil
			},
		},
		{
			ID:   ArticlePickerProvider,
			Tags: []di.Tag{di.NewTag(picker.ProviderTag, "priority", 128)},
			Factory: func(di.Resolver) (any, error) {
				return picker.Provider(picker.NewArticleProvider(backend.PathBackend)), nil
			},
		},

		// Frontend preview
		{
			ID: di.Services.PreviewManager,
			Factory: func(di.Resolver) (any, error) {
				return preview.NewManager(), nil
			},
		},
		{
			ID:   MemberSwitchProvider,
			Tags: []di.Tag{di.NewTag(preview.ProviderTag, "priority", 0)},
			Factory: func(r di.Resolver) (any, error) {
				renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
				if err != nil {
					return nil, err
				}
				return preview.ToolbarProvider(preview.NewMemberSwitchProvider(renderer, backend.PathPreviewSwitch)), nil
			},
		},
		{
			ID: di.Services.PreviewTokenChecker,
			Factory: func(r di.Resolver) (any, error) {
				tokens, err := di.Resolve[*jwt.Service[*auth.PreviewClaims]](r, di.Services.PreviewTokens)
				if err != nil {
					return nil, err
				}
				return preview.NewTokenChecker(tokens, cfg.Auth.PreviewCookie), nil
			},
		},
		{
			ID: di.Services.PreviewAuthenticator,
			Factory: func(r di.Resolver) (any, error) {
				tokens, err := di.Resolve[*jwt.Service[*auth.PreviewClaims]](r, di.Services.PreviewTokens)
				if err != nil {
					return nil, err
				}
				members, err := di.Resolve[*repository.MemberRepository](r, di.Services.Members)
				if err != nil {
					return nil, err
				}
				return preview.NewAuthenticator(tokens, members, cfg.Auth.PreviewCookie,
					cfg.Auth.JWT.PreviewTokenTTL, cfg.IsProduction()), nil
			},
		},

		// Fragments
		{
			ID: di.Services.FragmentRenderer,
			Factory: func(di.Resolver) (any, error) {
				return fragment.NewRenderer(fragments, backend.PathFragment), nil
			},
		},

		// Search and crawl
		{
			ID: di.Services.SearchIndexer,
			Factory: func(di.Resolver) (any, error) {
				return search.NewDelegatingIndexer(), nil
			},
		},
		{
			ID: di.Services.Crawler,
			Factory: func(di.Resolver) (any, error) {
				client, err := crawl.NewClient(cfg.Crawl)
				if err != nil {
					return nil, err
				}
				return crawl.New(cfg.Crawl, client), nil
			},
		},
	}
	if !cfg.Search.Disabled {
		defs = append(defs, di.Definition{
			ID:   DatabaseIndexer,
			Tags: []di.Tag{di.NewTag(search.IndexerTag)},
			Factory: func(r di.Resolver) (any, error) {
				db, err := di.Resolve[*database.DB](r, di.Services.Database)
				if err != nil {
					return nil, err
				}
				return search.Indexer(search.NewDatabaseIndexer(db)), nil
			},
		})
	}

	for _, def := range defs {
		if err := b.Register(def); err != nil {
			return fmt.Errorf("declare %s: %w", def.ID, err)
		}
	}

	return element.Register(b, element.Options{
		PreviewURL:    cfg.Backend.PreviewURL,
		VersionsLimit: cfg.Backend.VersionsLimit,
	})
}

// Prepare declares the bundle and runs the compiler passes. The returned
// builder is ready to compile; the fragment registry is frozen.
func Prepare(ctx context.Context, cfg *AppConfig, db *database.DB) (*di.Builder, *fragment.Registry, *compiler.Pipeline, error) {
	b := di.NewBuilder()
	fragments := fragment.NewRegistry()
	if err := Declare(b, cfg, db, fragments); err != nil {
		return nil, nil, nil, err
	}

	pipeline := compiler.NewDefaultPipeline(fragments)
	if err := pipeline.Run(ctx, b); err != nil {
		return nil, nil, nil, err
	}
	return b, fragments, pipeline, nil
}

// Build prepares and compiles the bundle, binds the fragments and freezes
// every registry filled by a compiler pass.
func Build(ctx context.Context, cfg *AppConfig, db *database.DB) (*Bundle, error) {
	b, fragments, pipeline, err := Prepare(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	c, err := b.Compile()
	if err != nil {
		return nil, err
	}
	if err := fragments.Bind(c); err != nil {
		return nil, err
	}

	resolver, err := di.Resolve[*picker.Resolver](c, di.Services.PickerResolver)
	if err != nil {
		return nil, err
	}
	resolver.Freeze()
	if builder, ok := di.TryResolve[*picker.ProviderBuilder](c, di.Services.PickerBuilder); ok {
		builder.Freeze()
	}
	manager, err := di.Resolve[*preview.Manager](c, di.Services.PreviewManager)
	if err != nil {
		return nil, err
	}
	manager.Freeze()

	templates, err := di.Resolve[*template.Engine](c, di.Services.Renderer)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Container: c,
		Fragments: fragments,
		Pipeline:  pipeline,
		Templates: templates,
	}, nil
}

// Routes resolves the controllers of the backend routes.
func (bd *Bundle) Routes(cfg *AppConfig) (backend.Routes, error) {
	c := bd.Container

	resolver, err := di.Resolve[*picker.Resolver](c, di.Services.PickerResolver)
	if err != nil {
		return backend.Routes{}, err
	}
	users, err := di.Resolve[*repository.UserRepository](c, di.Services.Users)
	if err != nil {
		return backend.Routes{}, err
	}
	members, err := di.Resolve[*repository.MemberRepository](c, di.Services.Members)
	if err != nil {
		return backend.Routes{}, err
	}
	hasher, err := di.Resolve[*password.Hasher](c, di.Services.PasswordHasher)
	if err != nil {
		return backend.Routes{}, err
	}
	tokens, err := di.Resolve[*jwt.Service[*auth.BackendClaims]](c, di.Services.BackendTokens)
	if err != nil {
		return backend.Routes{}, err
	}
	authenticator, err := di.Resolve[*preview.Authenticator](c, di.Services.PreviewAuthenticator)
	if err != nil {
		return backend.Routes{}, err
	}
	checker, err := di.Resolve[*preview.TokenChecker](c, di.Services.PreviewTokenChecker)
	if err != nil {
		return backend.Routes{}, err
	}
	manager, err := di.Resolve[*preview.Manager](c, di.Services.PreviewManager)
	if err != nil {
		return backend.Routes{}, err
	}
	renderer, err := di.Resolve[*fragment.Renderer](c, di.Services.FragmentRenderer)
	if err != nil {
		return backend.Routes{}, err
	}

	ctl := backend.NewBackendController(backend.Deps{
		Pickers:  resolver,
		Users:    users,
		Hasher:   hasher,
		Tokens:   tokens,
		Preview:  authenticator,
		Renderer: bd.Templates,
		Session: backend.SessionConfig{
			Cookie:    cfg.Auth.BackendCookie,
			TTL:       cfg.Auth.JWT.AccessTokenTTL,
			Secure:    cfg.IsProduction(),
			LoginPath: cfg.Auth.LoginPath,
		},
	})

	return backend.Routes{
		Backend:       ctl,
		PreviewSwitch: backend.NewPreviewSwitchController(manager, bd.Templates, authenticator, checker, members),
		Dashboard:     backend.NewDashboardController(bd.Fragments, renderer, bd.Templates, backend.PathLogout),
		Fragment:      backend.NewFragmentController(renderer),
		Auth: middleware.BackendAuth(middleware.BackendAuthConfig{
			Validator: auth.TokenValidatorFunc(tokens.ValidatorFunc()),
			Cookie:    cfg.Auth.BackendCookie,
		}),
		LoginLimit: middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Server.LoginRateLimit,
		}),
	}, nil
}

// Describe adds the compiler passes and registered fragments to s.
func (bd *Bundle) Describe(s *Summary) {
	s.AddSection("Compiler passes", bd.Pipeline.Names()...)

	var lines []string
	for _, f := range bd.Fragments.All() {
		lines = append(lines, fmt.Sprintf("%s (%s, %s)", f.Key, f.Renderer, f.ServiceID))
	}
	s.AddSection(fmt.Sprintf("Fragments (%d)", len(lines)), lines...)
}
