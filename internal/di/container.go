package di

import (
	"context"
	"errors"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	adminsettings "github.com/goliatone/go-workflowui/internal/admin/settings"
	"github.com/goliatone/go-workflowui/internal/audit"
	"github.com/goliatone/go-workflowui/internal/commit"
	"github.com/goliatone/go-workflowui/internal/content"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/history"
	"github.com/goliatone/go-workflowui/internal/i18n"
	"github.com/goliatone/go-workflowui/internal/labels"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/logging/gologger"
	"github.com/goliatone/go-workflowui/internal/metrics"
	"github.com/goliatone/go-workflowui/internal/rules"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/internal/storage"
	"github.com/goliatone/go-workflowui/internal/tokens"
	"github.com/goliatone/go-workflowui/internal/transform"
	"github.com/goliatone/go-workflowui/internal/transitions"
	"github.com/goliatone/go-workflowui/internal/workflow"
	"github.com/goliatone/go-workflowui/internal/workflow/simple"
	"github.com/goliatone/go-workflowui/pkg/activity"
	"github.com/goliatone/go-workflowui/pkg/activity/usersink"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// ActivityChannel is the channel stamped on emitted activity events.
const ActivityChannel = "workflowui"

// Container wires module dependencies. Collaborators that are not supplied
// through options fall back to the reference implementations.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	clock          func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer

	definitions      []workflow.Definition
	workflowEngine   interfaces.WorkflowEngine
	assigner         commit.Assigner
	namedTransitions interfaces.NamedTransitions
	tokenReplacer    interfaces.TokenReplacer
	tokenEngine      *tokens.Engine
	translator       interfaces.Translator

	contentStore  content.Store
	historyStore  history.Store
	settingsRepo  settings.Repository
	settingsState *settings.State

	auditRecorder audit.Recorder
	activitySink  interfaces.ActivitySink
	activityHooks activity.Hooks
	emitter       *activity.Emitter
	metrics       metrics.Recorder

	labelResolver *labels.Resolver
	transformer   *transform.Engine
	handlers      *form.Handlers
	ages          *rules.Ages
	settingsAdmin *adminsettings.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithClock overrides the clock used by the workflow engine, tokens and ages.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithBunDB uses db for the SQL backed stores instead of opening one from
// the storage config.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithMetricsRegisterer registers the module collectors with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithWorkflowEngine overrides the workflow engine. Engines that can assign
// states are also used to persist transitions on save.
func WithWorkflowEngine(engine interfaces.WorkflowEngine) Option {
	return func(c *Container) {
		c.workflowEngine = engine
	}
}

// WithNamedTransitions overrides the named transitions provider.
func WithNamedTransitions(provider interfaces.NamedTransitions) Option {
	return func(c *Container) {
		c.namedTransitions = provider
	}
}

// WithTokenReplacer overrides the token replacer.
func WithTokenReplacer(replacer interfaces.TokenReplacer) Option {
	return func(c *Container) {
		c.tokenReplacer = replacer
	}
}

// WithTranslator overrides the translator used for fallback phrases.
func WithTranslator(translator interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = translator
	}
}

// WithContentStore overrides the content store.
func WithContentStore(store content.Store) Option {
	return func(c *Container) {
		c.contentStore = store
	}
}

// WithHistoryStore overrides the workflow history store.
func WithHistoryStore(store history.Store) Option {
	return func(c *Container) {
		c.historyStore = store
	}
}

// WithSettingsRepository overrides the settings repository.
func WithSettingsRepository(repo settings.Repository) Option {
	return func(c *Container) {
		c.settingsRepo = repo
	}
}

// WithAuditRecorder overrides the audit recorder used by the settings admin.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(c *Container) {
		c.auditRecorder = recorder
	}
}

// WithActivitySink forwards transition activity to a go-users sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithActivityHooks appends activity hooks.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.activityHooks = append(c.activityHooks, hooks...)
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		clock:    time.Now,
		cacheTTL: cfg.Cache.DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureStores()
	if err := c.configureWorkflows(); err != nil {
		return nil, err
	}
	if err := c.configureTokens(); err != nil {
		return nil, err
	}
	if err := c.configureMetrics(); err != nil {
		return nil, err
	}
	if err := c.configureSettings(); err != nil {
		return nil, err
	}
	c.configureActivity()
	c.configureServices()

	logging.ModuleLogger(c.loggerProvider, "workflowui").Info("workflowui.container.ready",
		"workflows", len(c.definitions),
		"storage", c.storageName(),
		"tokens", c.tokenReplacer != nil,
		"metrics", c.Config.Features.Metrics,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "", "gologger":
		provider, err := gologger.New(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB == nil {
		db, err := storage.Open(c.Config.Storage)
		if errors.Is(err, storage.ErrStorageDisabled) {
			return nil
		}
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	return storage.CreateTables(context.Background(), c.bunDB)
}

func (c *Container) configureStores() {
	if c.bunDB != nil {
		if c.contentStore == nil {
			c.contentStore = content.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.historyStore == nil {
			c.historyStore = history.NewBunStore(c.bunDB)
		}
		if c.settingsRepo == nil {
			c.settingsRepo = settings.NewBunRepository(c.bunDB)
		}
	}
	if c.contentStore == nil {
		c.contentStore = content.NewMemoryStore()
	}
	if c.historyStore == nil {
		c.historyStore = history.NewMemoryStore()
	}
	if c.settingsRepo == nil {
		c.settingsRepo = settings.NewMemoryRepository()
	}
}

func (c *Container) configureWorkflows() error {
	definitions, err := workflow.CompileDefinitionConfigs(c.Config.Workflows)
	if err != nil {
		return err
	}
	c.definitions = definitions

	if c.workflowEngine == nil {
		engine := simple.New(simple.WithClock(c.clock), simple.WithRecorder(c.historyStore))
		for _, definition := range definitions {
			if err := engine.Register(definition); err != nil {
				return err
			}
		}
		c.workflowEngine = engine
	}
	if assigner, ok := c.workflowEngine.(commit.Assigner); ok {
		c.assigner = &contentStateAssigner{engine: assigner, store: c.contentStore}
	}

	if c.namedTransitions == nil && c.Config.Features.NamedTransitions {
		c.namedTransitions = transitions.FromDefinitions(definitions)
	}
	return nil
}

func (c *Container) configureTokens() error {
	if c.tokenReplacer == nil && c.Config.Features.Tokens {
		c.tokenEngine = tokens.NewDefaultEngine(c.Config.Site.Name, c.workflowEngine, c.clock)
		c.tokenReplacer = c.tokenEngine
	}
	if engine, ok := c.tokenReplacer.(*tokens.Engine); ok {
		c.tokenEngine = engine
	}
	if c.translator != nil {
		return nil
	}
	if c.Config.Translations == "" {
		c.translator = i18n.Default()
		return nil
	}
	fx, err := i18n.LoadWithDefaults(context.Background(), c.Config.Translations)
	if err != nil {
		return err
	}
	c.translator = i18n.NewStaticTranslator(fx)
	return nil
}

func (c *Container) configureMetrics() error {
	if !c.Config.Features.Metrics {
		c.metrics = metrics.NoOp()
		return nil
	}
	if c.registerer == nil {
		registry := prometheus.NewRegistry()
		c.registerer = registry
		c.gatherer = registry
	} else if gatherer, ok := c.registerer.(prometheus.Gatherer); ok {
		c.gatherer = gatherer
	}
	recorder, err := metrics.New(c.registerer)
	if err != nil {
		return err
	}
	c.metrics = recorder
	return nil
}

func (c *Container) configureSettings() error {
	state := settings.NewState(settings.FromConfig(c.Config.Defaults))
	if err := state.Load(context.Background(), c.settingsRepo); err != nil {
		return err
	}
	c.settingsState = state

	if c.auditRecorder == nil {
		c.auditRecorder = audit.NewLoggerRecorder(logging.SettingsLogger(c.loggerProvider))
	}
	return nil
}

func (c *Container) configureActivity() {
	hooks := append(activity.Hooks{}, c.activityHooks...)
	if c.activitySink != nil {
		hooks = append(hooks, usersink.Hook{Sink: c.activitySink})
	}
	c.emitter = activity.NewEmitter(hooks, activity.Config{
		Enabled: len(hooks) > 0,
		Channel: ActivityChannel,
	})
}

func (c *Container) configureServices() {
	tokenResolver := tokens.NewResolver(c.tokenReplacer, tokens.WithLogger(logging.TokensLogger(c.loggerProvider)))

	labelOpts := []labels.Option{
		labels.WithTranslator(c.translator),
		labels.WithLocale(c.Config.DefaultLocale),
		labels.WithLogger(logging.LabelsLogger(c.loggerProvider)),
	}
	if c.namedTransitions != nil {
		labelOpts = append(labelOpts, labels.WithNamedTransitions(c.namedTransitions))
	}
	c.labelResolver = labels.NewResolver(tokenResolver, labelOpts...)

	c.transformer = transform.NewEngine(c.workflowEngine, c.labelResolver,
		transform.WithContentStore(c.contentStore),
		transform.WithMetrics(c.metrics),
		transform.WithLogger(logging.FormLogger(c.loggerProvider)),
		transform.WithTranslator(c.translator, c.Config.DefaultLocale),
	)

	commitLogger := logging.CommitLogger(c.loggerProvider)
	c.handlers = form.NewHandlers()
	c.handlers.Register(form.HandlerCommitTransition, commit.NewAdapter(
		commit.WithMetrics(c.metrics),
		commit.WithLogger(commitLogger),
		commit.WithActivity(c.emitter),
	))
	if c.assigner != nil {
		c.handlers.Register(form.HandlerContentSave, commit.NewSaveHandler(c.assigner,
			commit.WithLogger(commitLogger),
			commit.WithActivity(c.emitter),
		))
	}

	c.ages = rules.NewAges(c.historyStore)
	c.ages.Clock = c.clock
	c.ages.Logger = logging.RulesLogger(c.loggerProvider)

	c.settingsAdmin = adminsettings.NewService(
		&stateSyncRepository{Repository: c.settingsRepo, state: c.settingsState},
		adminsettings.WithAuditRecorder(c.auditRecorder),
		adminsettings.WithClock(c.clock),
		adminsettings.WithDefaults(settings.FromConfig(c.Config.Defaults)),
	)
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return "memory"
	}
	return storage.CapabilitiesOf(c.bunDB).Driver
}

// Start keeps the settings snapshot in sync with writes made outside the
// admin service until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	return c.settingsState.Watch(ctx, c.settingsRepo)
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB exposes the SQL handle, nil when running in memory.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// WorkflowEngine exposes the configured workflow engine.
func (c *Container) WorkflowEngine() interfaces.WorkflowEngine {
	return c.workflowEngine
}

// Definitions returns the compiled workflow definitions.
func (c *Container) Definitions() []workflow.Definition {
	return append([]workflow.Definition(nil), c.definitions...)
}

// ContentStore exposes the configured content store.
func (c *Container) ContentStore() content.Store {
	return c.contentStore
}

// HistoryStore exposes the configured history store.
func (c *Container) HistoryStore() history.Store {
	return c.historyStore
}

// SettingsState exposes the per-request settings snapshot holder.
func (c *Container) SettingsState() *settings.State {
	return c.settingsState
}

// SettingsRepository exposes the persisted settings store.
func (c *Container) SettingsRepository() settings.Repository {
	return c.settingsRepo
}

// AuditRecorder exposes the settings audit log.
func (c *Container) AuditRecorder() audit.Recorder {
	return c.auditRecorder
}

// Assigner exposes the state assigner, nil when the workflow engine cannot
// assign states.
func (c *Container) Assigner() commit.Assigner {
	return c.assigner
}

// SettingsAdmin exposes the admin settings service.
func (c *Container) SettingsAdmin() *adminsettings.Service {
	return c.settingsAdmin
}

// TokenEngine returns the reference token engine, nil when a custom replacer
// is used or tokens are disabled.
func (c *Container) TokenEngine() *tokens.Engine {
	return c.tokenEngine
}

// LabelResolver exposes the transition label resolver.
func (c *Container) LabelResolver() *labels.Resolver {
	return c.labelResolver
}

// Transformer exposes the form transform engine.
func (c *Container) Transformer() *transform.Engine {
	return c.transformer
}

// Handlers exposes the submit handler registry.
func (c *Container) Handlers() *form.Handlers {
	return c.handlers
}

// Ages exposes the rule engine age values.
func (c *Container) Ages() *rules.Ages {
	return c.ages
}

// Metrics returns the recorder shared by transforms, commits and commands.
func (c *Container) Metrics() metrics.Recorder {
	if c.metrics == nil {
		return metrics.NoOp()
	}
	return c.metrics
}

// Gatherer exposes the metrics registry, nil when metrics are disabled or
// the supplied registerer cannot be gathered.
func (c *Container) Gatherer() prometheus.Gatherer {
	return c.gatherer
}
