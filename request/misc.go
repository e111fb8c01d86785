// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
)

const badBodyTypeMsg = "httpoll/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader, url.Values, map[string]string or JSON)"

const badQueryTypeMsg = "httpoll/request: invalid type (for query use nil, " +
	"string, url.Values or map[string]string)"

const (
	// ContentTypeForm is the content type of url.Values and
	// map[string]string bodies.
	ContentTypeForm = "application/x-www-form-urlencoded"
	// ContentTypeJSON is the content type of JSON bodies.
	ContentTypeJSON = "application/json"
)

// JSONBody is a request body parameter encoded as JSON. Construct it
// with JSON.
type JSONBody struct {
	Value interface{}
}

// JSON wraps v so that Encode marshals it to JSON.
func JSON(v interface{}) JSONBody {
	return JSONBody{Value: v}
}

// Encode converts a generic data parameter into a request body and the
// content type implied by its Go type, if any.
//
// The accepted types are those of BodyBytes plus url.Values and
// map[string]string, which are form-encoded, and JSONBody, which is
// marshalled with encoding/json.
func Encode(data interface{}) ([]byte, string, error) {
	switch x := data.(type) {
	case url.Values:
		return []byte(x.Encode()), ContentTypeForm, nil
	case map[string]string:
		return []byte(formValues(x).Encode()), ContentTypeForm, nil
	case JSONBody:
		b, err := json.Marshal(x.Value)
		if err != nil {
			return nil, "", fmt.Errorf("httpoll/request: json body: %w", err)
		}
		return b, ContentTypeJSON, nil
	case *JSONBody:
		if x == nil {
			return nil, "", nil
		}
		return Encode(*x)
	default:
		b, err := BodyBytes(data)
		return b, "", err
	}
}

// Query converts a generic data parameter into query string values.
//
// Parameter data may be nil, a url.Values, a map[string]string, or a
// string which is parsed as a raw query string.
func Query(data interface{}) (url.Values, error) {
	switch x := data.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return x, nil
	case map[string]string:
		return formValues(x), nil
	case string:
		return url.ParseQuery(strings.TrimPrefix(x, "?"))
	default:
		return nil, errors.New(badQueryTypeMsg)
	}
}

func formValues(m map[string]string) url.Values {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := make(url.Values, len(m))
	for _, k := range keys {
		v.Set(k, m[k])
	}
	return v
}

// BodyBytes converts a raw body parameter to a byte slice.
//
// A nil body yields a nil slice, a string is converted, and a []byte is
// returned as is. Readers are drained, and closed when they implement
// io.Closer; a read or close failure is returned with a nil slice. Any
// other type is an error.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}
