package domain

import (
	"context"

	"github.com/software-students-fall2024/5-final-y2k/internal/domain/stations"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
)

// Normalizer chains the decode and container stations into the canonical
// WAV representation. Pure transformation: no I/O besides its input and
// output.
type Normalizer struct {
	s1 *stations.S1DecodePCM
	s2 *stations.S2PCMtoWAV
}

func NewNormalizer() ports.AudioNormalizer {
	return &Normalizer{
		s1: stations.NewS1DecodePCM(),
		s2: stations.NewS2PCMtoWAV(),
	}
}

func (n *Normalizer) Normalize(ctx context.Context, data []byte, subtype string) ([]byte, error) {
	pcm, err := n.s1.Run(ctx, data, subtype)
	if err != nil {
		return nil, err
	}
	return n.s2.Run(pcm), nil
}
