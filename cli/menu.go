// Package cli is the interactive menu: encode a file, decode a file, exit.
// Failures are printed and the menu comes back; nothing here ends the process
// except choosing exit or closing the input.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/KitchenMishap/huffpack/archive"
	"github.com/KitchenMishap/huffpack/codec"
	"github.com/KitchenMishap/huffpack/fileio"
	"github.com/KitchenMishap/huffpack/logger"
	"github.com/KitchenMishap/huffpack/session"
)

const clearScreen = "\033[H\033[J"

type Menu struct {
	in     *bufio.Reader
	out    io.Writer
	tables *session.Store
	log    logger.Logger

	// Raw writes bare packed buffers and keeps their code tables in memory
	// instead of writing self describing archives.
	Raw bool
}

func NewMenu(in io.Reader, out io.Writer, tables *session.Store, log logger.Logger) *Menu {
	if log == nil {
		log = logger.Discard()
	}
	return &Menu{in: bufio.NewReader(in), out: out, tables: tables, log: log}
}

// prompt returns io.EOF once input is exhausted.
func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) pause() error {
	_, err := m.prompt("Press Enter to continue...")
	return err
}

func (m *Menu) Run() error {
	for {
		fmt.Fprint(m.out, clearScreen)
		fmt.Fprintf(m.out, "%s Menu %s\n", strings.Repeat("=", 10), strings.Repeat("=", 10))
		fmt.Fprintln(m.out, "1. Encode file")
		fmt.Fprintln(m.out, "2. Decode file")
		fmt.Fprintln(m.out, "3. Exit")

		choice, err := m.prompt("Choose an option: ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(m.out, "\nExiting...")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.encode()
		case "2":
			err = m.decode()
		case "3":
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option, please choose again.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) askFiles(title, inHint, outHint string) (string, string, error) {
	fmt.Fprint(m.out, clearScreen)
	fmt.Fprintf(m.out, "%s %s %s\n", strings.Repeat("=", 10), title, strings.Repeat("=", 10))
	in, err := m.prompt(inHint)
	if err != nil {
		return "", "", err
	}
	out, err := m.prompt(outHint)
	if err != nil {
		return "", "", err
	}
	return in, out, nil
}

// report prints a failure for the user; only prompt errors come back out.
func (m *Menu) report(action, file string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(m.out, "Error: file '%s' was not found.\n", file)
	case errors.Is(err, fileio.ErrInputUnavailable):
		fmt.Fprintf(m.out, "Error reading file '%s': %v\n", file, err)
	default:
		fmt.Fprintf(m.out, "Error %s file '%s': %v\n", action, file, err)
	}
	m.log.Errorf("%s %s: %v", action, file, err)
	return m.pause()
}

func (m *Menu) encode() error {
	inPath, outPath, err := m.askFiles("Encode file", "Input file name (e.g. input.txt): ", "Output file name (e.g. output.huf): ")
	if err != nil {
		return err
	}
	data, err := fileio.ReadFile(inPath)
	if err != nil {
		return m.report("reading", inPath, err)
	}

	var payload []byte
	var res codec.Result
	if m.Raw {
		res, err = codec.Encode(data)
		payload = res.Packed
	} else {
		payload, res, err = archive.Encode(data)
	}
	if err != nil {
		return m.report("encoding", inPath, err)
	}
	if err := fileio.WriteFile(outPath, payload); err != nil {
		return m.report("writing", outPath, err)
	}
	// The file now belongs to this encode only
	if m.Raw {
		m.tables.Put(outPath, res.Table)
	} else {
		m.tables.Forget(outPath)
	}
	fmt.Fprintf(m.out, "Encoded file saved to %s\n", outPath)
	m.log.Infof("encoded %s (%d bytes) -> %s (%d bytes)", inPath, len(data), outPath, len(payload))
	return m.pause()
}

func (m *Menu) decode() error {
	inPath, outPath, err := m.askFiles("Decode file", "Encoded file name (e.g. output.huf): ", "Output file name for the decoded data: ")
	if err != nil {
		return err
	}
	packed, err := fileio.ReadFile(inPath)
	if err != nil {
		return m.report("reading", inPath, err)
	}

	var data []byte
	if table, terr := m.tables.Get(inPath); terr == nil {
		// Raw file written earlier in this run: use the table from its own encode
		data, err = codec.Decode(packed, table)
	} else {
		data, err = archive.Decode(packed)
		if errors.Is(err, archive.ErrBadMagic) {
			err = fmt.Errorf("%w (and %w)", err, terr)
		}
	}
	if err != nil {
		return m.report("decoding", inPath, err)
	}
	if err := fileio.WriteFile(outPath, data); err != nil {
		return m.report("writing", outPath, err)
	}
	m.tables.Forget(outPath)
	fmt.Fprintf(m.out, "Decoded file saved to %s\n", outPath)
	m.log.Infof("decoded %s -> %s (%d bytes)", inPath, outPath, len(data))
	return m.pause()
}
