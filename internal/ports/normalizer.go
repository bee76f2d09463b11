package ports

import "context"

// AudioNormalizer converts uploaded audio bytes into a canonical WAV clip.
// subtype is the part of the declared content type after the slash.
type AudioNormalizer interface {
	Normalize(ctx context.Context, data []byte, subtype string) ([]byte, error)
}
