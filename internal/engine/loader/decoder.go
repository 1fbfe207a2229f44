package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qmuntal/gltf"
)

// Mesh compression extensions that need an external decoder.
const (
	ExtDraco    = "KHR_draco_mesh_compression"
	ExtMeshopt  = "EXT_meshopt_compression"
	ExtMeshoptK = "KHR_meshopt_compression"
)

// ErrNoDecoder is returned for compressed meshes when no decoder is configured.
var ErrNoDecoder = errors.New("compressed mesh requires a decoder")

var compressedExtensions = []string{ExtDraco, ExtMeshopt, ExtMeshoptK}

// compressionExtension returns the first compression extension the document
// uses, or "".
func compressionExtension(doc *gltf.Document) string {
	for _, list := range [][]string{doc.ExtensionsRequired, doc.ExtensionsUsed} {
		for _, ext := range list {
			for _, c := range compressedExtensions {
				if ext == c {
					return ext
				}
			}
		}
	}
	return ""
}

// decompress pipes a compressed GLB through the decoder executable.
func (l *Loader) decompress(ctx context.Context, data []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, l.cfg.DecoderPath)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("decoder %s: %w: %s", l.cfg.DecoderPath, err, msg)
		}
		return nil, fmt.Errorf("decoder %s: %w", l.cfg.DecoderPath, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("decoder %s produced no output", l.cfg.DecoderPath)
	}
	return stdout.Bytes(), nil
}
