// Package video - Forward-only frame streams over trial camera videos.
package video

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrNotFound reports a missing trial resource (video file, points file, or
// trials directory).
var ErrNotFound = errors.New("trial resource not found")

// ErrDecodeFailed reports a frame that should exist but could not be read.
var ErrDecodeFailed = errors.New("video frame decode failed")

// Stream decodes the frames of one camera video in display order.
//
// The underlying container is not assumed to support random access: frames
// can only be consumed front to back, one per Next call. Reopening the file
// restarts the stream from frame 0; there is no mid-stream rewind.
type Stream struct {
	path   string
	capt   *gocv.VideoCapture
	frames int
	next   int
}

// Open opens the video at path for sequential decoding.
//
// Returns:
//   - *Stream: The opened stream, positioned before frame 0.
//   - error: ErrNotFound (wrapped) if the file is missing or not a decodable video.
func Open(path string) (*Stream, error) {
	capt, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "couldn't open a video at file path %s: %v", path, err)
	}
	if !capt.IsOpened() {
		capt.Close()
		return nil, errors.Wrapf(ErrNotFound, "couldn't open a video at file path %s", path)
	}
	return &Stream{
		path:   path,
		capt:   capt,
		frames: int(capt.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// Path returns the file path the stream was opened from.
func (s *Stream) Path() string { return s.path }

// FrameCount returns the container's reported frame count.
func (s *Stream) FrameCount() int { return s.frames }

// NextIndex returns the index of the frame the next call to Next will deliver.
func (s *Stream) NextIndex() int { return s.next }

// Next decodes the next frame into dst.
//
// Returns ErrDecodeFailed (wrapped) if the decoder cannot deliver the frame,
// which includes hitting EOF before the expected frame count.
func (s *Stream) Next(dst *gocv.Mat) error {
	if ok := s.capt.Read(dst); !ok || dst.Empty() {
		return errors.Wrapf(ErrDecodeFailed, "reading frame %d of %s", s.next, s.path)
	}
	s.next++
	return nil
}

// Close releases the underlying decoder.
func (s *Stream) Close() error {
	return s.capt.Close()
}
