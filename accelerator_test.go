package ascii

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

// mockAccelerator implements Accelerator for testing the dispatch path.
type mockAccelerator struct {
	initErr  error
	convErr  error
	result   []byte
	lastJob  Job
	convCnt  int
	closeCnt int
	logger   *slog.Logger
}

func (m *mockAccelerator) Name() string { return "mock" }
func (m *mockAccelerator) Init() error  { return m.initErr }
func (m *mockAccelerator) Close()       { m.closeCnt++ }

func (m *mockAccelerator) SetLogger(l *slog.Logger) { m.logger = l }

func (m *mockAccelerator) Convert(job Job) ([]byte, error) {
	m.convCnt++
	m.lastJob = job
	if m.convErr != nil {
		return nil, m.convErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return nil, ErrFallbackToCPU
}

// swapAccelerator installs a test accelerator and restores the previous
// registration on cleanup.
func swapAccelerator(t *testing.T, a Accelerator) {
	t.Helper()
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	t.Cleanup(func() {
		accelMu.Lock()
		accel = old
		accelMu.Unlock()
	})
}

func TestRegisterAccelerator_Nil(t *testing.T) {
	if err := RegisterAccelerator(nil); err == nil {
		t.Error("RegisterAccelerator(nil) err = nil, want error")
	}
}

func TestRegisterAccelerator_InitFailure(t *testing.T) {
	initErr := errors.New("no adapters")
	if err := RegisterAccelerator(&mockAccelerator{initErr: initErr}); !errors.Is(err, initErr) {
		t.Errorf("RegisterAccelerator() err = %v, want %v", err, initErr)
	}
}

func TestConverter_UsesAccelerator(t *testing.T) {
	want := bytes.Repeat([]byte{'#'}, 8*4)
	mock := &mockAccelerator{result: want}
	swapAccelerator(t, mock)

	frame, err := Convert(solidPixmap(8, 4, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if mock.convCnt != 1 {
		t.Fatalf("accelerator Convert called %d times, want 1", mock.convCnt)
	}
	if !bytes.Equal(frame.Packed(), want) {
		t.Error("frame does not carry accelerator output")
	}
	if mock.lastJob.Width != 8 || mock.lastJob.Height != 4 {
		t.Errorf("job dimensions = %dx%d, want 8x4", mock.lastJob.Width, mock.lastJob.Height)
	}
}

func TestConverter_AcceleratorFallback(t *testing.T) {
	// ErrFallbackToCPU must be transparent: the CPU result comes back.
	mock := &mockAccelerator{convErr: ErrFallbackToCPU}
	swapAccelerator(t, mock)

	tbl := DefaultTable()
	frame, err := Convert(solidPixmap(8, 4, 1), WithTable(tbl))
	if err != nil {
		t.Fatal(err)
	}
	if mock.convCnt != 1 {
		t.Fatalf("accelerator Convert called %d times, want 1", mock.convCnt)
	}
	for i, c := range frame.Packed() {
		if c != tbl.At(255) {
			t.Fatalf("slot %d = %q, want table[255] = %q", i, c, tbl.At(255))
		}
	}
}

func TestConverter_AcceleratorError(t *testing.T) {
	// Hard accelerator errors also fall back instead of failing the run.
	mock := &mockAccelerator{convErr: errors.New("device lost")}
	swapAccelerator(t, mock)

	frame, err := Convert(solidPixmap(4, 4, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Packed()) != 16 {
		t.Errorf("packed length = %d, want 16", len(frame.Packed()))
	}
}

func TestConverter_AcceleratorWrongSize(t *testing.T) {
	// A buffer of the wrong size is rejected and recomputed on CPU.
	mock := &mockAccelerator{result: []byte{1, 2, 3}}
	swapAccelerator(t, mock)

	frame, err := Convert(solidPixmap(4, 4, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Packed()) != 16 {
		t.Errorf("packed length = %d, want 16", len(frame.Packed()))
	}
}

func TestConverter_GPUDisabled(t *testing.T) {
	mock := &mockAccelerator{result: bytes.Repeat([]byte{'#'}, 16)}
	swapAccelerator(t, mock)

	if _, err := Convert(solidPixmap(4, 4, 0), WithGPU(false)); err != nil {
		t.Fatal(err)
	}
	if mock.convCnt != 0 {
		t.Errorf("accelerator consulted %d times with GPU disabled, want 0", mock.convCnt)
	}
}

func TestSetAcceleratorDeviceProvider_NoAccelerator(t *testing.T) {
	swapAccelerator(t, nil)
	if err := SetAcceleratorDeviceProvider(struct{}{}); err != nil {
		t.Errorf("SetAcceleratorDeviceProvider() with no accelerator = %v, want nil", err)
	}
}
