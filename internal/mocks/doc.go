// Package mocks provides centralized mock implementations for testing.
//
// The task store and the task generator are mocked with testify so tests can
// set expectations per call. The task service mock uses function fields and
// records every call, which keeps handler tests free of expectation plumbing.
//
// Usage:
//
//	import "github.com/phrazzld/quizchain-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    svc := &mocks.MockTaskService{
//	        StartFn: func(ctx context.Context) (string, error) {
//	            return "0a1b2c3d", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package, name the file after the interface
// being mocked and add a compile-time assertion to mocks_test.go.
package mocks
