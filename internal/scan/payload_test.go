package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePayload(t *testing.T) {
	want := Payload{StudentID: "st-1", QRToken: "tok 1", SessionID: "se-1"}

	tests := []struct {
		name    string
		raw     string
		want    Payload
		wantErr bool
	}{
		{
			name: "absolute url",
			raw:  "https://app.example.com/scan?student_id=st-1&qr=tok%201&session_id=se-1",
			want: want,
		},
		{
			name: "relative scan path",
			raw:  "/scan?student_id=st-1&qr=tok%201&session_id=se-1",
			want: want,
		},
		{
			name: "bare query string",
			raw:  "student_id=st-1&qr=tok%201&session_id=se-1",
			want: want,
		},
		{
			name:    "unknown shape",
			raw:     "hello world",
			wantErr: true,
		},
		{
			name:    "missing token",
			raw:     "https://app.example.com/scan?student_id=st-1&session_id=se-1",
			wantErr: true,
		},
		{
			name:    "missing session",
			raw:     "student_id=st-1&qr=tok",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePayloadDecodesToken(t *testing.T) {
	p, err := ParsePayload("/scan?student_id=a&qr=ab%2Bcd%3D%3D&session_id=b")
	assert.NoError(t, err)
	assert.Equal(t, "ab+cd==", p.QRToken)
}
