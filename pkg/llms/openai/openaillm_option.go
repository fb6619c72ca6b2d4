package openai

import (
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smoltalk/toolbox/pkg/llms/openai/internal/openaiclient"
)

const (
	tokenEnvVarName        = "OPENAI_API_KEY"      //nolint:gosec
	modelEnvVarName        = "OPENAI_MODEL"        //nolint:gosec
	baseURLEnvVarName      = "OPENAI_BASE_URL"     //nolint:gosec
	organizationEnvVarName = "OPENAI_ORGANIZATION" //nolint:gosec
)

// DefaultTimeout bounds a single chat-completions round trip when no custom
// HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

// ErrMissingToken is returned when the API key is neither configured nor
// present in the environment.
var ErrMissingToken = errors.New("missing the API key, set it in the OPENAI_API_KEY environment variable")

type options struct {
	token        string
	model        string
	baseURL      string
	organization string
	httpClient   openaiclient.Doer
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the model identifier to the client. If not set, the model
// is read from the OPENAI_MODEL environment variable.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithBaseURL passes the endpoint root URL to the client. If not set, the
// base url is read from the OPENAI_BASE_URL environment variable. If still
// not set, the default value https://api.openai.com/v1 is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the organization to the client. If not set, the
// organization is read from the OPENAI_ORGANIZATION environment variable.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithHTTPClient allows setting a custom HTTP client, e.g. to control the
// request deadline. If not set, an http.Client with DefaultTimeout is used.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

func newClient(opts ...Option) (*openaiclient.Client, error) {
	options := &options{
		token:        os.Getenv(tokenEnvVarName),
		model:        os.Getenv(modelEnvVarName),
		baseURL:      os.Getenv(baseURLEnvVarName),
		organization: os.Getenv(organizationEnvVarName),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return openaiclient.New(options.model, options.token, options.baseURL,
		options.organization, options.httpClient)
}
