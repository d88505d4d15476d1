package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBoxModelFix(t *testing.T) {
	tests := []struct {
		in      string
		want    BoxModelFix
		wantErr bool
	}{
		{in: "", want: BoxModelNone},
		{in: "none", want: BoxModelNone},
		{in: "mirrored-padding", want: BoxModelMirroredPadding},
		{in: "inset", want: BoxModelInset},
		{in: "firefox", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoxModelFix(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBoxModelFix_Apply(t *testing.T) {
	box := BoxModel{
		Padding: Edges{Top: 2, Right: 4, Bottom: 2, Left: 4},
		Border:  Edges{Top: 1, Right: 1, Bottom: 1, Left: 1},
	}

	require.Equal(t, Layout{Content: box}, BoxModelNone.Apply(box))

	mirrored := BoxModelMirroredPadding.Apply(box)
	require.Equal(t, Edges{Top: 3, Right: 5, Bottom: 3, Left: 5}, mirrored.BackdropMargin)
	require.Equal(t, BoxModel{}, mirrored.Content)

	inset := BoxModelInset.Apply(box)
	require.Equal(t, Edges{Top: 2, Right: 7, Bottom: 2, Left: 7}, inset.Content.Padding)
	require.Equal(t, box.Border, inset.Content.Border)
	require.Equal(t, Edges{}, inset.BackdropMargin)
}

func TestEdges_CSS(t *testing.T) {
	require.Equal(t, "1px 2.5px 0px 4px", Edges{Top: 1, Right: 2.5, Left: 4}.CSS())
}
