package ascii

import (
	"fmt"
	"testing"
)

// BenchmarkConvert benchmarks the CPU conversion path across image sizes
// and packing variants.
func BenchmarkConvert(b *testing.B) {
	sizes := []struct {
		name string
		w, h int
	}{
		{"80x24", 80, 24},
		{"320x96", 320, 96},
		{"1280x384", 1280, 384},
	}

	for _, size := range sizes {
		p := solidPixmap(size.w, size.h, 0.5)
		for _, packing := range packings {
			b.Run(fmt.Sprintf("%s/%s", size.name, packing), func(b *testing.B) {
				conv := NewConverter(WithPacking(packing), WithGPU(false))
				defer conv.Close()

				b.ReportAllocs()
				b.SetBytes(int64(size.w * size.h))
				for b.Loop() {
					if _, err := conv.Convert(p); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkConvert_Workers benchmarks scaling across worker counts.
func BenchmarkConvert_Workers(b *testing.B) {
	p := solidPixmap(640, 192, 0.5)
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			conv := NewConverter(WithWorkers(workers), WithGPU(false))
			defer conv.Close()

			b.ReportAllocs()
			for b.Loop() {
				if _, err := conv.Convert(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkConvert_Downsample measures the cost of the averaging sampler.
func BenchmarkConvert_Downsample(b *testing.B) {
	p := solidPixmap(320, 192, 0.5)
	for _, ds := range []bool{false, true} {
		name := "plain"
		if ds {
			name = "downsample"
		}
		b.Run(name, func(b *testing.B) {
			conv := NewConverter(WithDownsample(ds), WithGPU(false))
			defer conv.Close()

			b.ReportAllocs()
			for b.Loop() {
				if _, err := conv.Convert(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLightness(b *testing.B) {
	b.ReportAllocs()
	var sink float32
	for b.Loop() {
		sink = Lightness(0.2, 0.8, 0.4)
	}
	_ = sink
}
