// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package qbuf_test

// raceEnabled is true when the race detector is active; segmentpool_test.go
// scales its concurrent iteration count down under race mode, which adds
// substantial per-access overhead.
const raceEnabled = true
