package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/shin1244/BubbleTrans/internal/remote"
)

// detectRequest is sent to the detection service
type detectRequest struct {
	Model string `json:"model"`
	Image string `json:"image"` // base64 PNG
}

type detectResponse struct {
	Boxes []struct {
		XYXY       []float64 `json:"xyxy"`
		Confidence float64   `json:"confidence"`
	} `json:"boxes"`
}

// responseSchema describes what the detection service must return
func responseSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"boxes"},
		"properties": map[string]any{
			"boxes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"xyxy"},
					"properties": map[string]any{
						"xyxy": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "number"},
							"minItems": 4,
							"maxItems": 4,
						},
						"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
				},
			},
		},
	}
}

// HTTPDetector calls an object-detection model served over HTTP, such as a
// YOLO checkpoint behind a small inference server
type HTTPDetector struct {
	client *remote.Client
	config *Config
	schema *jsonschema.Schema
}

// NewHTTPDetector creates a detector for the service at config.URL
func NewHTTPDetector(config *Config) (*HTTPDetector, error) {
	schema, err := compileSchema(responseSchema())
	if err != nil {
		return nil, err
	}

	return &HTTPDetector{
		client: remote.NewClient("detect", config.Timeout, config.Logger),
		config: config,
		schema: schema,
	}, nil
}

// Detect sends img to the detection service and converts the xyxy boxes it
// returns. Fractional coordinates are truncated toward zero.
func (d *HTTPDetector) Detect(ctx context.Context, img image.Image) ([]Box, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}

	req := detectRequest{
		Model: d.config.Model,
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}

	raw, err := d.client.PostJSON(ctx, d.config.URL, req, nil)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid detection response: %w", err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("detection response does not match schema: %w", err)
	}

	var resp detectResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid detection response: %w", err)
	}

	boxes := make([]Box, 0, len(resp.Boxes))
	for _, b := range resp.Boxes {
		if d.config.MinConfidence > 0 && b.Confidence < d.config.MinConfidence {
			continue
		}
		boxes = append(boxes, Box{
			Left:       int(b.XYXY[0]),
			Top:        int(b.XYXY[1]),
			Right:      int(b.XYXY[2]),
			Bottom:     int(b.XYXY[3]),
			Confidence: b.Confidence,
		})
	}

	return boxes, nil
}

// Name returns the provider name
func (d *HTTPDetector) Name() string {
	return "http"
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("detect.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("detect.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
