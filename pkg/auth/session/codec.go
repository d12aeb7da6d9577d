// Package session issues and verifies stateless signed session tokens.
//
// A token is the URL-safe base64 encoding of
//
//	issuedAtMillis[:subjectID]:hex(HMAC-SHA256(secret, payload))
//
// where payload is everything before the final separator.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/solehaus/wholesale-backend/pkg/config"
)

const (
	AdminCodecName = "admin"
	BuyerCodecName = "buyer"

	separator = ":"
)

var (
	ErrSubjectRequired   = errors.New("session codec requires a subject")
	ErrUnexpectedSubject = errors.New("session codec does not carry a subject")
	ErrInvalidSubject    = errors.New("subject id must be positive")
)

var encoding = base64.RawURLEncoding.Strict()

// Config parameterizes one codec instance.
type Config struct {
	Name        string
	Secret      []byte
	MaxAge      time.Duration
	WithSubject bool
}

// AdminConfig builds the subject-less admin codec config.
func AdminConfig(cfg config.SessionConfig) Config {
	return Config{
		Name:   AdminCodecName,
		Secret: []byte(cfg.AdminSecret),
		MaxAge: cfg.AdminMaxAge,
	}
}

// BuyerConfig builds the buyer codec config; buyer tokens carry the buyer id.
func BuyerConfig(cfg config.SessionConfig) Config {
	return Config{
		Name:        BuyerCodecName,
		Secret:      []byte(cfg.BuyerSecret),
		MaxAge:      cfg.BuyerMaxAge,
		WithSubject: true,
	}
}

// Identity is the verified content of a token. SubjectID is zero for codecs
// without a subject.
type Identity struct {
	SubjectID int64
	IssuedAt  time.Time
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec signs and verifies tokens for a single session kind. It is immutable
// after construction and safe for concurrent use.
type Codec struct {
	name        string
	secret      []byte
	maxAge      time.Duration
	withSubject bool
	now         func() time.Time
}

// NewCodec validates cfg and returns a codec.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("%s session secret is required", cfg.Name)
	}
	if cfg.MaxAge <= 0 {
		return nil, fmt.Errorf("%s session max age must be positive", cfg.Name)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	c := &Codec{
		name:        cfg.Name,
		secret:      secret,
		maxAge:      cfg.MaxAge,
		withSubject: cfg.WithSubject,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name identifies the codec in logs.
func (c *Codec) Name() string {
	return c.name
}

// MaxAge is the token lifetime, also used for the cookie Max-Age.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Issue mints a token for a subject-less codec.
func (c *Codec) Issue() (string, error) {
	if c.withSubject {
		return "", ErrSubjectRequired
	}
	return c.encode(strconv.FormatInt(c.now().UnixMilli(), 10)), nil
}

// IssueFor mints a token carrying subjectID.
func (c *Codec) IssueFor(subjectID int64) (string, error) {
	if !c.withSubject {
		return "", ErrUnexpectedSubject
	}
	if subjectID <= 0 {
		return "", ErrInvalidSubject
	}
	payload := strconv.FormatInt(c.now().UnixMilli(), 10) + separator + strconv.FormatInt(subjectID, 10)
	return c.encode(payload), nil
}

// Verify returns the identity in token. Any failure, whether malformed,
// forged, expired or issued in the future, reports false with no reason.
func (c *Codec) Verify(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return Identity{}, false
	}

	fields := strings.Split(string(raw), separator)
	want := 2
	if c.withSubject {
		want = 3
	}
	if len(fields) != want {
		return Identity{}, false
	}

	payload := strings.Join(fields[:len(fields)-1], separator)
	expected := []byte(c.sign(payload))
	provided := []byte(fields[len(fields)-1])
	if len(expected) != len(provided) || subtle.ConstantTimeCompare(expected, provided) != 1 {
		return Identity{}, false
	}

	issuedAtMillis, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Identity{}, false
	}
	age := c.now().UnixMilli() - issuedAtMillis
	if age < 0 || age >= c.maxAge.Milliseconds() {
		return Identity{}, false
	}

	identity := Identity{IssuedAt: time.UnixMilli(issuedAtMillis)}
	if c.withSubject {
		subjectID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || subjectID <= 0 {
			return Identity{}, false
		}
		identity.SubjectID = subjectID
	}
	return identity, true
}

func (c *Codec) encode(payload string) string {
	return encoding.EncodeToString([]byte(payload + separator + c.sign(payload)))
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
