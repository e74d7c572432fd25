package binlog

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"
)

// Auth plugin names negotiated during handshake.
const (
	authNativePassword      = "mysql_native_password"
	authClearPassword       = "mysql_clear_password"
	authSHA256Password      = "sha256_password"
	authCachingSHA2Password = "caching_sha2_password"
)

// authMoreData / fast-auth status bytes sent by caching_sha2_password.
const (
	cachingSHA2FastAuthSuccess  = 0x03
	cachingSHA2FullAuthRequired = 0x04
)

// scramble computes the initial auth response for the given plugin,
// or returns (nil, false) when the plugin needs a follow-up round
// trip (full caching_sha2_password, sha256_password) that the caller
// must drive via authMoreData/AuthSwitchRequest.
func scramble(plugin, password string, seed []byte) ([]byte, bool) {
	switch plugin {
	case authNativePassword:
		return scrambleNative(password, seed), true
	case authClearPassword:
		return append([]byte(password), 0), true
	case authSHA256Password, authCachingSHA2Password:
		if password == "" {
			return []byte{}, true
		}
		return scrambleSHA2(password, seed), true
	default:
		return scrambleNative(password, seed), true
	}
}

// scrambleNative implements mysql_native_password:
// SHA1(password) XOR SHA1(seed + SHA1(SHA1(password))).
//
// https://dev.mysql.com/doc/internals/en/secure-password-authentication.html
func scrambleNative(password string, seed []byte) []byte {
	if password == "" {
		return nil
	}
	h1 := sha1.Sum([]byte(password))
	h2 := sha1.Sum(h1[:])
	var buf []byte
	buf = append(buf, seed...)
	buf = append(buf, h2[:]...)
	h3 := sha1.Sum(buf)

	out := make([]byte, sha1.Size)
	for i := range out {
		out[i] = h1[i] ^ h3[i]
	}
	return out
}

// scrambleSHA2 implements the caching_sha2_password / sha256_password
// fast-path scramble (same construction as native, with SHA-256):
// XOR(SHA256(password), SHA256(SHA256(SHA256(password)) + seed)).
func scrambleSHA2(password string, seed []byte) []byte {
	h1 := sha256.Sum256([]byte(password))
	h2 := sha256.Sum256(h1[:])
	var buf []byte
	buf = append(buf, h2[:]...)
	buf = append(buf, seed...)
	h3 := sha256.Sum256(buf)

	out := make([]byte, sha256.Size)
	for i := range out {
		out[i] = h1[i] ^ h3[i]
	}
	return out
}

// encryptPasswordRSA implements the caching_sha2_password/sha256_password
// full-auth path: XOR the NUL-terminated password with a repeating seed,
// then encrypt with the server's RSA public key (OAEP, SHA-1), used when
// the connection is not already SSL-protected and a fast-auth cache miss
// forces a full round trip.
func encryptPasswordRSA(password string, seed []byte, pemKey []byte) ([]byte, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("binlog: invalid RSA public key PEM")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "parse RSA public key")
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("binlog: server public key is not RSA")
	}

	plain := append([]byte(password), 0)
	xored := make([]byte, len(plain))
	for i := range plain {
		xored[i] = plain[i] ^ seed[i%len(seed)]
	}
	return rsa.EncryptOAEP(sha1.New(), rand.Reader, rsaKey, xored, nil)
}

// authSwitchRequest is sent by the server mid-handshake to request a
// different auth plugin than the one advertised in the initial
// handshake (marker 0xFE).
type authSwitchRequest struct {
	PluginName string
	PluginData []byte
}

func (p *authSwitchRequest) decode(r *logBuffer) error {
	r.skip(1) // 0xfe marker
	p.PluginName = r.stringNull()
	p.PluginData = r.bytesEOF()
	return r.err
}

// authMoreData is sent by caching_sha2_password to carry either the
// fast-auth result byte or (on cache miss) a request for full
// authentication (marker 0x01).
type authMoreData struct {
	Data []byte
}

func (p *authMoreData) decode(r *logBuffer) error {
	r.skip(1) // 0x01 marker
	p.Data = r.bytesEOF()
	return r.err
}
