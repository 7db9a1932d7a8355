package scanning

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Vision implements the Scanner interface using the Google Cloud Vision
// text detection API.
type Vision struct {
	service *vision.Service
}

// NewVision creates a new Vision Scanner instance. credentialsFile may be
// empty, in which case application default credentials are used.
func NewVision(credentialsFile string) (*Vision, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Vision{service: service}, nil
}

// ScanReceipt sends the document through TEXT_DETECTION and returns the
// full transcript. No text on the page is returned as an empty string, not
// an error.
func (v *Vision) ScanReceipt(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pngData, err := normalizeToPNG(imageData, contentType)
	if err != nil {
		return "", err
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(pngData)},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("annotating image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("no response from vision api")
	}

	result := resp.Responses[0]
	if result.Error != nil {
		return "", fmt.Errorf("vision api error: %s", result.Error.Message)
	}
	if result.FullTextAnnotation != nil {
		return result.FullTextAnnotation.Text, nil
	}
	if len(result.TextAnnotations) > 0 {
		return result.TextAnnotations[0].Description, nil
	}
	return "", nil
}

// Close closes the Vision client. The generated REST client holds no
// connection state, so this is a no-op.
func (v *Vision) Close() error {
	return nil
}
