package bridge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestDecode_Valid(t *testing.T) {
	v, err := Decode[sample]("op", `{"name":"a","count":2}`)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "a", Count: 2}, v)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode[sample]("get balance", `{"name":"a",`)
	assert.ErrorIs(t, err, ErrDecode)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "get balance", be.Op)
	assert.Contains(t, be.Msg, "offset")
	assert.Contains(t, be.Msg, `{\"name\":\"a\",`)
}

func TestDecode_TypeMismatch(t *testing.T) {
	_, err := Decode[sample]("op", `{"name":"a","count":"many"}`)
	assert.ErrorIs(t, err, ErrDecode)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Contains(t, be.Msg, `field "count"`)
}

func TestDecode_MissingRequiredField(t *testing.T) {
	_, err := Decode[sample]("op", `{"count":2}`)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "name is required")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode[map[string]uint64]("op", "")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_ExcerptIsBounded(t *testing.T) {
	text := `{"name":"` + strings.Repeat("x", 500) + `",}`
	_, err := Decode[sample]("op", text)
	require.Error(t, err)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Less(t, len(be.Msg), 200)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 2))

	long := strings.Repeat("a", 100) + "XY" + strings.Repeat("b", 100)
	got := excerpt(long, 100)
	assert.Len(t, got, excerptLen)
	assert.Contains(t, got, "XY")

	assert.Equal(t, long[len(long)-excerptLen:], excerpt(long, int64(len(long))))
	assert.Equal(t, long[:excerptLen], excerpt(long, -1))
}

// --------------------------------------------------------------------------
// DecodeTxID
// --------------------------------------------------------------------------

const txid = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

func TestDecodeTxID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		kind error
	}{
		{"bare", txid, txid, nil},
		{"object", `{"txid":"` + txid + `"}`, txid, nil},
		{"txhash object", `{"txhash":"` + txid + `"}`, txid, nil},
		{"object with whitespace", "\n {\"txid\": \"" + txid + "\"}", txid, nil},
		{"trailing space", txid + " ", txid, nil},
		{"carriage return", txid + "\r", txid, nil},
		{"empty", "", "", ErrInvalidResponse},
		{"empty object", `{}`, "", ErrInvalidResponse},
		{"short", txid[:10], txid[:10], ErrInvalidResponse},
		{"not hex", strings.Repeat("z", 64), strings.Repeat("z", 64), ErrInvalidResponse},
		{"labelled", "txid: " + txid, "txid: " + txid, ErrInvalidResponse},
		{"broken object", `{"txid":`, `{"txid":`, ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTxID("tx send", tt.text)
			assert.Equal(t, tt.want, got)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
				return
			}
			require.NoError(t, err)
		})
	}
}
