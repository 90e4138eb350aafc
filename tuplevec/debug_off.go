//go:build !tuplevec_debug

package tuplevec

const debug = false
