package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure VertexProvider implements LLMProvider.
var _ LLMProvider = (*VertexProvider)(nil)

// VertexProvider calls a Gemini model on Vertex AI. Credentials come from
// Application Default Credentials.
type VertexProvider struct {
	client *genai.Client
	model  string
}

// NewVertexProvider creates a Vertex AI client for projectID in region.
func NewVertexProvider(ctx context.Context, projectID, region, model string) (*VertexProvider, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("vertex provider: projectID and region cannot be empty")
	}
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &VertexProvider{client: client, model: model}, nil
}

// Complete runs one GenerateContent call with system as the system instruction.
func (p *VertexProvider) Complete(ctx context.Context, system, user string) (string, error) {
	m := p.client.GenerativeModel(p.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", vertexError(err))
	}
	return candidateText(resp)
}

// Close releases the underlying client.
func (p *VertexProvider) Close() error {
	return p.client.Close()
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("vertex returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// vertexError maps gRPC and googleapi failures onto *model.HTTPError so the
// retry decorator can tell quota and outage errors from auth and request errors.
func vertexError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &model.HTTPError{StatusCode: apiErr.Code, Err: err}
	}
	if st, ok := status.FromError(err); ok {
		return &model.HTTPError{StatusCode: httpStatus(st.Code()), Err: err}
	}
	return err
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return 499
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
