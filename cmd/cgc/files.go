package main

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/helixml/cgc/application/service"
)

// closers closes registered files in reverse order of registration.
// Files it created are tracked so a failed run can remove them.
type closers struct {
	list    []namedCloser
	created []string
}

type namedCloser struct {
	path string
	c    io.Closer
}

func (c *closers) add(path string, cl io.Closer) {
	c.list = append(c.list, namedCloser{path: path, c: cl})
}

// closeAll closes every file and joins the failures.
func (c *closers) closeAll() error {
	var errs []error
	for i := len(c.list) - 1; i >= 0; i-- {
		nc := c.list[i]
		if err := nc.c.Close(); err != nil {
			errs = append(errs, &service.IOError{Op: "close", Path: nc.path, Err: err})
		}
	}
	c.list = nil
	return errors.Join(errs...)
}

func (c *closers) open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &service.IOError{Op: "open", Path: path, Err: err}
	}
	c.add(path, f)
	return f, nil
}

func (c *closers) create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &service.IOError{Op: "create", Path: path, Err: err}
	}
	c.add(path, f)
	c.created = append(c.created, path)
	return f, nil
}

// removeCreated deletes the files opened with create. Call it after closeAll.
func (c *closers) removeCreated() error {
	var errs []error
	for _, path := range c.created {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &service.IOError{Op: "remove", Path: path, Err: err})
		}
	}
	c.created = nil
	return errors.Join(errs...)
}
