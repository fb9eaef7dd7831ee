// Package sinks persists rendered frame and sample streams as PNG files, a
// WAV container and a JSON metadata report. The generation core never
// touches the filesystem; everything that does lives here.
package sinks

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

const (
	riffChunkID  = "RIFF"
	waveFormatID = "WAVE"
	fmtChunkID   = "fmt "
	dataChunkID  = "data"

	pcmFormatTag  = 1 // linear PCM
	numChannels   = 1 // mono
	bitsPerSample = 16
	bytesPerFrame = numChannels * bitsPerSample / 8
	fmtChunkSize  = 16
)

// WriteWAVHeader writes a canonical 16-bit mono PCM RIFF header.
func WriteWAVHeader(w io.Writer, sampleRateHz, dataSize int) error {
	fileSize := 36 + dataSize // everything after the 8-byte RIFF header

	if _, err := w.Write([]byte(riffChunkID)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fileSize)); err != nil {
		return err
	}
	if _, err := w.Write([]byte(waveFormatID)); err != nil {
		return err
	}

	if _, err := w.Write([]byte(fmtChunkID)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fmtChunkSize)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(pcmFormatTag)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(numChannels)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(sampleRateHz)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(sampleRateHz*bytesPerFrame)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(bytesPerFrame)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(bitsPerSample)); err != nil {
		return err
	}

	if _, err := w.Write([]byte(dataChunkID)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(dataSize))
}

// WriteWAV encodes samples as little-endian 16-bit PCM to w.
func WriteWAV(w io.Writer, samples []int16, sampleRateHz int) error {
	if err := WriteWAVHeader(w, sampleRateHz, len(samples)*bytesPerFrame); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, samples)
}

// WriteWAVFile creates filename (and its directory) and writes the samples
// as a WAV file.
func WriteWAVFile(filename string, samples []int16, sampleRateHz int) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return errors.WrapSinkError(err, "failed to create audio output directory")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.WrapSinkError(err, "failed to create WAV file")
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteWAV(bw, samples, sampleRateHz); err != nil {
		return errors.WrapSinkError(err, "failed to write WAV data")
	}
	if err := bw.Flush(); err != nil {
		return errors.WrapSinkError(err, "failed to flush WAV data")
	}
	return nil
}
