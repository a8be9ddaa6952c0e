package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// excerptLen bounds how much of the offending text a decode error carries.
const excerptLen = 64

// Validator is implemented by response shapes that have required fields.
type Validator interface {
	Validate() error
}

// Decode parses text as JSON into T. Malformed text or a type mismatch yields
// KindDecode with the byte offset and an excerpt of the input. If *T
// implements Validator, a failed validation also yields KindDecode.
func Decode[T any](op, text string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		var zero T
		return zero, jsonError(op, text, err)
	}
	if val, ok := any(&v).(Validator); ok {
		if err := val.Validate(); err != nil {
			var zero T
			return zero, DecodeError(op, "missing required field", err)
		}
	}
	return v, nil
}

func jsonError(op, text string, err error) *Error {
	offset := int64(-1)
	msg := "malformed JSON"

	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syn):
		offset = syn.Offset
	case errors.As(err, &typ):
		offset = typ.Offset
		msg = "type mismatch"
		if typ.Field != "" {
			msg = fmt.Sprintf("type mismatch in field %q", typ.Field)
		}
	}

	if offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, offset)
	}
	msg = fmt.Sprintf("%s near %q", msg, excerpt(text, offset))
	return DecodeError(op, msg, err)
}

// excerpt returns at most excerptLen bytes of text, centred on offset when
// it is known.
func excerpt(text string, offset int64) string {
	if len(text) <= excerptLen {
		return text
	}
	start := 0
	if offset > 0 {
		start = int(offset) - excerptLen/2
	}
	if start < 0 {
		start = 0
	}
	if start > len(text)-excerptLen {
		start = len(text) - excerptLen
	}
	return text[start : start+excerptLen]
}

// DecodeTxID extracts a transaction id from broadcast output. The output is
// either the id itself or a JSON object carrying it as "txid" or "txhash";
// surrounding whitespace is dropped. The extracted text is returned even when
// the error is non-nil: KindInvalidResponse when it is not 64 hex characters,
// KindDecode when an object fails to parse.
func DecodeTxID(op, text string) (string, error) {
	id := strings.TrimSpace(text)
	if strings.HasPrefix(id, "{") {
		resp, err := Decode[struct {
			TxID   string `json:"txid"`
			TxHash string `json:"txhash"`
		}](op, id)
		if err != nil {
			return id, err
		}
		id = strings.TrimSpace(resp.TxID)
		if id == "" {
			id = strings.TrimSpace(resp.TxHash)
		}
	}

	if id == "" {
		return "", InvalidResponse(op, "empty transaction id")
	}
	if len(id) != chainhash.HashSize*2 {
		return id, InvalidResponse(op, fmt.Sprintf("transaction id %q has length %d", excerpt(id, 0), len(id)))
	}
	if _, err := chainhash.NewHashFromHex(id); err != nil {
		return id, InvalidResponse(op, fmt.Sprintf("transaction id %q is not hex", id))
	}
	return id, nil
}
