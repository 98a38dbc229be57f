// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package pebblconfig

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"reflect"
	"strings"

	"github.com/uber-go/mapdecode"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

const (
	_tagName           = "config"
	_interpolateOption = "interpolate"
)

// LookupFunc resolves variables referenced by interpolated fields.
type LookupFunc func(name string) (string, bool)

// LoadOption customizes loading.
type LoadOption func(*loader)

type loader struct {
	lookup LookupFunc
}

// WithLookup resolves interpolated variables with f instead of the
// environment.
func WithLookup(f LookupFunc) LoadOption {
	return func(l *loader) {
		l.lookup = f
	}
}

// LoadYAML reads a YAML document from r, decodes it on top of Default and
// validates the result.
func LoadYAML(r io.Reader, opts ...LoadOption) (Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return Config{}, pebblerrors.InvalidArgumentErrorf("could not parse configuration: %v", err)
	}
	return Load(data, opts...)
}

// Load decodes data on top of Default and validates the result.
func Load(data interface{}, opts ...LoadOption) (Config, error) {
	l := loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&l)
	}

	cfg := Default()
	if data != nil {
		err := mapdecode.Decode(&cfg, data,
			mapdecode.TagName(_tagName),
			interpolateWith(l.lookup))
		if err != nil {
			return Config{}, pebblerrors.InvalidArgumentErrorf("could not decode configuration: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// interpolateWith renders ${NAME} and ${NAME:default} references in string
// fields whose tag carries the interpolate option.
func interpolateWith(lookup LookupFunc) mapdecode.Option {
	return mapdecode.FieldHook(func(dest reflect.StructField, srcData reflect.Value) (reflect.Value, error) {
		shouldInterpolate := false

		options := strings.Split(dest.Tag.Get(_tagName), ",")[1:]
		for _, option := range options {
			if option == _interpolateOption {
				shouldInterpolate = true
				break
			}
		}

		if !shouldInterpolate {
			return srcData, nil
		}

		v, ok := srcData.Interface().(string)
		if !ok {
			return srcData, nil
		}

		s, err := interpolate(v, lookup)
		if err != nil {
			return srcData, fmt.Errorf("failed to render %q: %v", v, err)
		}
		return reflect.ValueOf(s), nil
	})
}

func interpolate(s string, lookup LookupFunc) (string, error) {
	var missing []string
	out := os.Expand(s, func(ref string) string {
		name, def, hasDefault := ref, "", false
		if i := strings.IndexByte(ref, ':'); i >= 0 {
			name, def, hasDefault = ref[:i], ref[i+1:], true
		}
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		if !hasDefault {
			missing = append(missing, name)
		}
		return def
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("variables %v are not set and have no default", missing)
	}
	return out, nil
}

type zapLevel zapcore.Level

// mapdecode doesn't support encoding.TextUnmarshaler by default so we have to
// do this manually.
func (l *zapLevel) Decode(into mapdecode.Into) error {
	var s string
	if err := into(&s); err != nil {
		return fmt.Errorf("could not decode Zap log level: %v", err)
	}

	if err := (*zapcore.Level)(l).UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("could not decode Zap log level: %v", err)
	}
	return nil
}
