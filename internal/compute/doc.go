// Package compute provides the behavior model backends.
//
// Two implementations satisfy [Model]:
//
//   - Accelerated: the native capsim library, loaded with dlopen
//   - Pure: the closed-form equations in Go, always available
//
// A [Resolver] picks one once per process and hands the same model to every
// caller:
//
//	r := compute.NewResolver(compute.ResolverConfig{
//	    Mode:        compute.ModeAuto,
//	    LibraryPath: "native/libcapsim.so",
//	    Build:       compute.DefaultBuilder("native"),
//	}, logger)
//	model, status := r.Resolve(ctx)
//	if status.Degraded() {
//	    log.Print(status.Advisory)
//	}
//
// # Native boundary
//
// The profile crosses as a fixed 64-byte record and trajectories as raw
// float64 arrays. Arguments are validated in Go before every call, the
// result is written to a scratch buffer and returned only when the call
// succeeded and every value is finite.
//
// Build the library with:
//
//	make -C native
package compute
