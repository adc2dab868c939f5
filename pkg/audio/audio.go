// Package audio implements the audio transcription and translation APIs
// (whisper models) via multipart upload.
package audio

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fragen-dev/fragen/pkg/client"
)

// Request describes an audio transcription or translation.
type Request struct {
	// Model is the speech-to-text model, e.g. "whisper-1".
	Model string

	// Filename names the uploaded audio part; its extension tells the
	// backend the container format.
	Filename string

	// Audio is the audio content.
	Audio io.Reader

	// Language is an optional ISO-639-1 hint (transcription only).
	Language string

	// Prompt optionally guides the model's style or continues a prior
	// segment.
	Prompt string

	// ResponseFormat is "json" (default), "text", "srt", "verbose_json",
	// or "vtt".
	ResponseFormat string

	// Temperature is the sampling temperature between 0 and 1; nil leaves
	// the backend default.
	Temperature *float32
}

// Transcription is the transcribed or translated text.
type Transcription struct {
	Text string `json:"text"`
}

// Service exposes the audio operations.
type Service struct {
	client *client.Client
}

// New creates an audio service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Transcribe converts audio into text in the source language.
func (s *Service) Transcribe(ctx context.Context, req *Request) (*Transcription, error) {
	return s.create(ctx, "/audio/transcriptions", req, true)
}

// Translate converts audio in any supported language into English text.
func (s *Service) Translate(ctx context.Context, req *Request) (*Transcription, error) {
	return s.create(ctx, "/audio/translations", req, false)
}

// TranscribePath transcribes an audio file from the local filesystem.
func (s *Service) TranscribePath(ctx context.Context, model, path string) (*Transcription, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()
	return s.Transcribe(ctx, &Request{
		Model:    model,
		Filename: filepath.Base(path),
		Audio:    f,
	})
}

func (s *Service) create(ctx context.Context, path string, req *Request, withLanguage bool) (*Transcription, error) {
	var out Transcription
	err := s.client.PostMultipart(ctx, path, func(w *multipart.Writer) error {
		if err := w.WriteField("model", req.Model); err != nil {
			return err
		}
		if withLanguage && req.Language != "" {
			if err := w.WriteField("language", req.Language); err != nil {
				return err
			}
		}
		if req.Prompt != "" {
			if err := w.WriteField("prompt", req.Prompt); err != nil {
				return err
			}
		}
		if req.ResponseFormat != "" {
			if err := w.WriteField("response_format", req.ResponseFormat); err != nil {
				return err
			}
		}
		if req.Temperature != nil {
			temp := strconv.FormatFloat(float64(*req.Temperature), 'f', -1, 32)
			if err := w.WriteField("temperature", temp); err != nil {
				return err
			}
		}
		fw, err := w.CreateFormFile("file", req.Filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(fw, req.Audio)
		return err
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
