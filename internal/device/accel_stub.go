//go:build !webgpu

package device

// AcceleratorCount reports how many accelerator devices the runtime
// exposes. Without the webgpu build tag there is no accelerator runtime.
func AcceleratorCount() (int, error) {
	return 0, ErrUnsupported
}

// acceleratorRuntime returns the raw accelerator runtime, or nil when no
// runtime was compiled in.
func acceleratorRuntime() runtime {
	return nil
}
