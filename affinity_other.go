//go:build !linux

package workqueue

func PinToCPU(int) error { return ErrPinUnsupported }

func AllowedCPUs() ([]int, error) { return nil, ErrPinUnsupported }
