// Package scheduler turns wall-clock frames into bounded physics time slices
// and decides when to record samples.
//
// Nothing here feeds back into stepping: the sampler and history only
// observe the dt values a Clock hands out.
package scheduler
