/*
 *	Copyright 2024 The Marian-Go Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package backends describes the compute device and configuration a Graph is
// built against.
//
// The graph package only consults the backend for construction decisions --
// which device class is active, whether the reduced-precision fast path is
// enabled, and what clip value to apply to matrix-product operands. The
// kernels themselves, and the execution of the built graph, live behind this
// interface and are out of scope for this module.
package backends

import "fmt"

// DeviceType enumerates the device classes a graph can be built for.
type DeviceType int

const (
	// CPU device class. The only class eligible for the reduced-precision
	// matrix-product path.
	CPU DeviceType = iota

	// CUDA GPU device class.
	CUDA
)

// String implements fmt.Stringer.
func (t DeviceType) String() string {
	switch t {
	case CPU:
		return "cpu"
	case CUDA:
		return "cuda"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// Device identifies one compute device: its class and its ordinal within
// that class.
type Device struct {
	Type    DeviceType
	Ordinal int
}

// String implements fmt.Stringer.
func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.Ordinal)
}

// Backend is the configuration surface the graph package consults while
// building nodes.
type Backend interface {
	// Name returns a short name for the backend.
	Name() string

	// Device returns the device computations will be placed on.
	Device() Device

	// Clip returns the clipping value applied to matrix-product operands, or
	// 0 when clipping is disabled. Clipping bounds the activation range to
	// match the assumptions made when calibrating quantization during
	// training.
	Clip() float32

	// IsOptimized reports whether the reduced-precision integer path may be
	// used for matrix products on CPU.
	IsOptimized() bool
}

// Option configures the backend returned by New.
type Option func(*backend)

// WithDevice places computations on the given device.
func WithDevice(device Device) Option {
	return func(b *backend) { b.device = device }
}

// WithClip sets the operand clipping value. Zero disables clipping.
func WithClip(clip float32) Option {
	return func(b *backend) { b.clip = clip }
}

// WithOptimized enables or disables the reduced-precision integer path.
func WithOptimized(optimized bool) Option {
	return func(b *backend) { b.optimized = optimized }
}

// backend is the default Backend implementation: a plain value holder.
type backend struct {
	device    Device
	clip      float32
	optimized bool
}

// New returns a Backend configured by the given options. The default is an
// unoptimized CPU backend with clipping disabled.
func New(options ...Option) Backend {
	b := &backend{device: Device{Type: CPU}}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *backend) Name() string      { return "default" }
func (b *backend) Device() Device    { return b.device }
func (b *backend) Clip() float32     { return b.clip }
func (b *backend) IsOptimized() bool { return b.optimized }
