package mcp

import (
	"context"

	"github.com/arden-labs/gsc-cli/internal/gsc"
)

// fakeAccount is a scripted implementation of PropertyLister and QueryRunner.
type fakeAccount struct {
	properties []*gsc.WebProperty
	err        error
}

func (f *fakeAccount) Webproperties(_ context.Context) ([]*gsc.WebProperty, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.properties, nil
}

func (f *fakeAccount) Property(_ context.Context, siteURL string) (*gsc.WebProperty, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, wp := range f.properties {
		if wp.URL == siteURL {
			return wp, nil
		}
	}
	return nil, nil
}
