package export

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

const wantHeader = "Duration(µs),Timestamp(µs),AccelerationX,AccelerationY,AccelerationZ,RotationRateX,RotationRateY,RotationRateZ,VelocityX,VelocityY,VelocityZ,PositionX,PositionY,PositionZ,Distance"

func sampleRecords(n int) []motion.Record {
	out := make([]motion.Record, n)
	for i := range out {
		f := float64(i)
		out[i] = motion.Record{
			DurationMicros:  int64(i) * 10_000,
			TimestampMicros: 1_723_600_000_000_000 + int64(i)*10_000,
			Acceleration:    motion.Vector{X: 0.05 * f, Y: -1.0 / 3.0, Z: 1e-7},
			AngularRate:     motion.Vector{X: math.Pi, Y: -f, Z: 0},
			Velocity:        motion.Vector{X: 0.0005 * f, Y: 123456.789, Z: -2.5e-12},
			Position:        motion.Vector{X: f / 7, Y: 0, Z: -f},
			Distance:        math.Sqrt(f*f/49 + f*f),
		}
	}
	return out
}

func TestSerialize_EmptyLogHasHeaderOnly(t *testing.T) {
	t.Parallel()

	data, err := Serialize(slices.Values([]motion.Record(nil)))
	require.NoError(t, err)
	assert.Equal(t, wantHeader+"\n", string(data))
}

func TestSerialize_RowShape(t *testing.T) {
	t.Parallel()

	rec := motion.Record{
		DurationMicros:  10000,
		TimestampMicros: 1723600000123456,
		Acceleration:    motion.Vector{X: 0.05},
		Velocity:        motion.Vector{X: 0.0005},
		AngularRate:     motion.Vector{Z: -0.25},
		Position:        motion.Vector{Y: 3},
		Distance:        3,
	}
	data, err := Serialize(slices.Values([]motion.Record{rec}))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, wantHeader, lines[0])
	assert.Equal(t, "10000,1723600000123456,0.05,0,0,0,0,-0.25,0.0005,0,0,0,3,0,3", lines[1])
}

func TestSerialize_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 17, 500} {
		records := sampleRecords(n)
		data, err := Serialize(slices.Values(records))
		require.NoError(t, err)

		assert.Equal(t, n+1, bytes.Count(data, []byte("\n")), "header plus one line per record")

		parsed, err := Parse(bytes.NewReader(data))
		require.NoError(t, err)
		if diff := cmp.Diff(records, parsed); diff != "" {
			t.Errorf("round trip mismatch for n=%d (-want +got):\n%s", n, diff)
		}
	}
}

func TestParse_RejectsForeignHeader(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("a,b,c,d,e,f,g,h,i,j,k,l,m,n,o\n"))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestParse_ReportsBadField(t *testing.T) {
	t.Parallel()

	in := wantHeader + "\n1,2,3,4,5,6,7,8,9,10,11,12,13,oops,15\n"
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PositionZ")
}
