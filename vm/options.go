package vm

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithResolver sets how call instructions find their targets. Without a
// resolver every call fails with ErrUnresolvedMethod.
func WithResolver(r Resolver) Option {
	return func(vm *VirtualMachine) {
		vm.resolver = r
	}
}

// WithStatic presets the value of a static field, by member name.
func WithStatic(name string, v Value) Option {
	return func(vm *VirtualMachine) {
		slot := v
		vm.statics[name] = &slot
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in instructions. A value of 0 limits checks to method entry.
// The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// Returning false from any observer method halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
