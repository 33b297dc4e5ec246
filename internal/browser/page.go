package browser

import (
	"encoding/base64"
	"fmt"

	"github.com/dop251/goja"
)

// fetchOptions mirror the subset of fetch() init options the page scripts use.
type fetchOptions struct {
	Method  string
	Headers map[string]string
	Body    string
}

type fetchResult struct {
	Status int
	Body   string
}

type fetchFunc func(url string, opts fetchOptions) (*fetchResult, error)

// page is one script context. A fresh page is created before every call, the
// equivalent of navigating to a blank document: no state leaks between
// evaluations.
type page struct {
	vm *goja.Runtime
}

func newPage(fetch fetchFunc) *page {
	vm := goja.New()

	vm.Set("btoa", func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	})

	vm.Set("fetch", func(call goja.FunctionCall) goja.Value {
		rawURL := call.Argument(0).String()

		opts := fetchOptions{Method: "GET"}
		if arg := call.Argument(1); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
			if m, ok := arg.Export().(map[string]interface{}); ok {
				if v, ok := m["method"].(string); ok && v != "" {
					opts.Method = v
				}
				if v, ok := m["body"].(string); ok {
					opts.Body = v
				}
				if hm, ok := m["headers"].(map[string]interface{}); ok {
					opts.Headers = make(map[string]string, len(hm))
					for k, hv := range hm {
						if s, ok := hv.(string); ok {
							opts.Headers[k] = s
						}
					}
				}
			}
		}

		res, err := fetch(rawURL, opts)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(map[string]interface{}{
			"status": res.Status,
			"ok":     res.Status >= 200 && res.Status <= 299,
			"body":   res.Body,
		})
	})

	return &page{vm: vm}
}

// evaluate runs a script that resolves to a {status, body} object.
func (p *page) evaluate(script string) (int, string, error) {
	v, err := p.vm.RunString(script)
	if err != nil {
		return 0, "", fmt.Errorf("script evaluation failed: %w", err)
	}

	m, ok := v.Export().(map[string]interface{})
	if !ok {
		return 0, "", fmt.Errorf("script returned unexpected value: %v", v)
	}

	var status int
	switch n := m["status"].(type) {
	case int64:
		status = int(n)
	case float64:
		status = int(n)
	default:
		return 0, "", fmt.Errorf("script returned non-numeric status: %v", m["status"])
	}

	body, _ := m["body"].(string)
	return status, body, nil
}
