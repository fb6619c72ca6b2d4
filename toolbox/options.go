package toolbox

import (
	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/store"
)

const (
	// DefaultMaxToolCalls bounds the number of tool executions in one
	// GetResponse call, to avoid a model looping on tools forever.
	DefaultMaxToolCalls = 20
	// DefaultMaxMessages bounds the conversation length in one GetResponse
	// call.
	DefaultMaxMessages = 100
	// DefaultMaxContentSize bounds the total content size sent to the model.
	DefaultMaxContentSize = 1024 * 1024
)

// Option is a function that can be used to modify the Toolbox Config.
type Option func(*Config)

// Config holds the conversation policy of a Toolbox. It is set once at
// construction and immutable for the Toolbox lifetime.
type Config struct {
	// Model overrides the model identifier configured on the LLM client.
	Model string

	// SystemPrompt is injected as the first message of every conversation.
	SystemPrompt string

	// FailOnToolError controls whether a tool execution failure aborts the
	// conversation, or is converted into a tool-result message describing
	// the error so the model can recover. The default is false.
	FailOnToolError bool

	// MaxToolCalls is the maximum number of tool executions per GetResponse
	// call.
	MaxToolCalls int
	// MaxMessages is the maximum conversation length per GetResponse call.
	MaxMessages int
	// MaxContentSize is the maximum total content size sent to the model.
	MaxContentSize uint64

	// Temperature is the temperature for sampling in an LLM call.
	Temperature    float64
	temperatureSet bool

	// MaxTokens is the maximum number of tokens to generate in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// StopWords is a list of words generation stops on.
	StopWords []string

	// Seed enables deterministic sampling in an LLM call.
	Seed    int
	seedSet bool

	// N is how many completion choices the model generates per turn.
	N    int
	nSet bool

	// Callback receives conversation and tool events.
	Callback Callback

	// Store persists conversation history between GetResponse calls,
	// keyed by the chat ID in the context.
	Store store.MessageStore
}

// NewConfig returns a Config with defaults applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxToolCalls:   DefaultMaxToolCalls,
		MaxMessages:    DefaultMaxMessages,
		MaxContentSize: DefaultMaxContentSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithModel overrides the model identifier for LLM calls.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
	}
}

// WithSystemPrompt sets the system prompt injected as the first message.
func WithSystemPrompt(prompt string) Option {
	return func(o *Config) {
		o.SystemPrompt = prompt
	}
}

// WithFailOnToolError sets the tool error policy: fail-fast when true,
// fail-soft when false.
func WithFailOnToolError(failOnToolError bool) Option {
	return func(o *Config) {
		o.FailOnToolError = failOnToolError
	}
}

// WithMaxToolCalls bounds the number of tool executions per GetResponse call.
func WithMaxToolCalls(maxToolCalls int) Option {
	return func(o *Config) {
		o.MaxToolCalls = maxToolCalls
	}
}

// WithMaxMessages bounds the conversation length per GetResponse call.
func WithMaxMessages(maxMessages int) Option {
	return func(o *Config) {
		o.MaxMessages = maxMessages
	}
}

// WithMaxContentSize bounds the total content size sent to the model.
func WithMaxContentSize(maxContentSize uint64) Option {
	return func(o *Config) {
		o.MaxContentSize = maxContentSize
	}
}

// WithTemperature sets the sampling temperature for LLM calls.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithStopWords sets the words generation stops on.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
	}
}

// WithSeed enables deterministic sampling.
func WithSeed(seed int) Option {
	return func(o *Config) {
		o.Seed = seed
		o.seedSet = true
	}
}

// WithN sets how many completion choices the model generates per turn.
func WithN(n int) Option {
	return func(o *Config) {
		o.N = n
		o.nSet = true
	}
}

// WithCallback allows setting a custom Callback handler.
func WithCallback(callback Callback) Option {
	return func(o *Config) {
		o.Callback = callback
	}
}

// WithStore sets the message store used to share history between
// GetResponse calls within one process.
func WithStore(s store.MessageStore) Option {
	return func(o *Config) {
		o.Store = s
	}
}

// GetCallOptions converts the Config into per-call LLM options.
func (c *Config) GetCallOptions(extra ...llms.CallOption) []llms.CallOption {
	var callOpts []llms.CallOption
	if c.Model != "" {
		callOpts = append(callOpts, llms.WithModel(c.Model))
	}
	if c.temperatureSet {
		callOpts = append(callOpts, llms.WithTemperature(c.Temperature))
	}
	if c.maxTokensSet {
		callOpts = append(callOpts, llms.WithMaxTokens(c.MaxTokens))
	}
	if len(c.StopWords) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(c.StopWords))
	}
	if c.seedSet {
		callOpts = append(callOpts, llms.WithSeed(c.Seed))
	}
	if c.nSet {
		callOpts = append(callOpts, llms.WithN(c.N))
	}
	return append(callOpts, extra...)
}
