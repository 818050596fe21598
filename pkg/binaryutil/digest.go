package binaryutil

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

// Algorithm 为摘要算法名称。
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"

	DefaultAlgorithm = SHA1
)

type digester struct {
	algorithm Algorithm
	size      int
	newHash   func() hash.Hash
}

func newDigester(algorithm Algorithm) (digester, error) {
	switch algorithm {
	case SHA1, "":
		return digester{algorithm: SHA1, size: sha1.Size, newHash: sha1.New}, nil
	case SHA256:
		return digester{algorithm: SHA256, size: sha256.Size, newHash: sha256.New}, nil
	case BLAKE3:
		return digester{algorithm: BLAKE3, size: 32, newHash: func() hash.Hash { return blake3.New() }}, nil
	default:
		return digester{}, merr.WrapErrDigestUnsupported(string(algorithm))
	}
}

func (d digester) sum(data []byte) string {
	h := d.newHash()
	h.Write(data)
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// ParseAlgorithm 将配置中的算法名称转换为 Algorithm，名称不区分大小写。
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if alg == "" {
		return DefaultAlgorithm, nil
	}
	if _, err := newDigester(alg); err != nil {
		return "", err
	}
	return alg, nil
}
