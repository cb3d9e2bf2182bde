package koji

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kolo/xmlrpc"
)

// Build types recorded on the run context.
const (
	TypeRPM    = "rpm"
	TypeModule = "module"
)

var (
	ErrBuildNotFound = errors.New("koji build not found")
	ErrNoHub         = errors.New("koji hub is not configured")
)

// Build is the subset of getBuild the gatherer needs.
type Build struct {
	ID          int                    `xmlrpc:"id"`
	PackageName string                 `xmlrpc:"package_name"`
	Name        string                 `xmlrpc:"name"`
	Version     string                 `xmlrpc:"version"`
	Release     string                 `xmlrpc:"release"`
	NVR         string                 `xmlrpc:"nvr"`
	VolumeName  string                 `xmlrpc:"volume_name"`
	Extra       map[string]interface{} `xmlrpc:"extra"`
}

// TaggedBuild is one entry of listTagged.
type TaggedBuild struct {
	BuildID     int    `xmlrpc:"build_id"`
	PackageName string `xmlrpc:"package_name"`
	Version     string `xmlrpc:"version"`
	Release     string `xmlrpc:"release"`
	NVR         string `xmlrpc:"nvr"`
}

// RPM is one entry of listRPMs.
type RPM struct {
	ID      int    `xmlrpc:"id"`
	BuildID int    `xmlrpc:"build_id"`
	Name    string `xmlrpc:"name"`
	Version string `xmlrpc:"version"`
	Release string `xmlrpc:"release"`
	Arch    string `xmlrpc:"arch"`
}

// FileName is the name the RPM is stored under on the package server.
func (r RPM) FileName() string {
	return fmt.Sprintf("%s-%s-%s.%s.rpm", r.Name, r.Version, r.Release, r.Arch)
}

// Component is a build contributing packages to a resolved build; a plain
// RPM build has exactly one, a module build one per tagged component.
type Component struct {
	PackageName string
	RPMs        []RPM
}

// Resolved is a build plus everything needed to download it.
type Resolved struct {
	Build      Build
	Type       string
	Components []Component
}

// Arches returns the distinct architectures across all components in
// first-seen order.
func (r *Resolved) Arches() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, c := range r.Components {
		for _, rpm := range c.RPMs {
			if _, ok := seen[rpm.Arch]; ok {
				continue
			}
			seen[rpm.Arch] = struct{}{}
			out = append(out, rpm.Arch)
		}
	}
	return out
}

// Caller is the XML-RPC surface used by Client.
type Caller interface {
	Call(method string, args interface{}, reply interface{}) error
}

// Client talks to a Koji hub.
type Client struct {
	rpc Caller
}

// NewClient connects to the hub at url using transport (nil for the default).
func NewClient(url string, transport http.RoundTripper) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrNoHub
	}
	rpc, err := xmlrpc.NewClient(url, transport)
	if err != nil {
		return nil, fmt.Errorf("koji hub %s: %w", url, err)
	}
	return &Client{rpc: rpc}, nil
}

// NewClientWithCaller wraps an existing XML-RPC caller.
func NewClientWithCaller(rpc Caller) *Client {
	return &Client{rpc: rpc}
}

func (c *Client) call(ctx context.Context, method string, args []interface{}, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- c.rpc.Call(method, args, reply) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("koji %s: %w", method, err)
		}
		return nil
	}
}

// GetBuild looks up a build by NVR or numeric id.
func (c *Client) GetBuild(ctx context.Context, spec string) (*Build, error) {
	var key interface{} = spec
	if id, err := strconv.Atoi(spec); err == nil {
		key = id
	}
	var build Build
	if err := c.call(ctx, "getBuild", []interface{}{key, true}, &build); err != nil {
		// Faults may arrive typed or flattened to text by net/rpc.
		if strings.Contains(err.Error(), "No such build") {
			return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, spec)
		}
		return nil, err
	}
	if build.ID == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, spec)
	}
	return &build, nil
}

// ListRPMs returns the packages of build id.
func (c *Client) ListRPMs(ctx context.Context, buildID int) ([]RPM, error) {
	var rpms []RPM
	if err := c.call(ctx, "listRPMs", []interface{}{buildID}, &rpms); err != nil {
		return nil, err
	}
	return rpms, nil
}

// ListTagged returns the builds tagged into tag.
func (c *Client) ListTagged(ctx context.Context, tag string) ([]TaggedBuild, error) {
	var builds []TaggedBuild
	if err := c.call(ctx, "listTagged", []interface{}{tag}, &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

// Resolve fetches build metadata and package lists for spec.
func (c *Client) Resolve(ctx context.Context, spec string) (*Resolved, error) {
	build, err := c.GetBuild(ctx, spec)
	if err != nil {
		return nil, err
	}
	res := &Resolved{Build: *build, Type: TypeRPM}

	if tag, ok := moduleContentTag(build.Extra); ok {
		res.Type = TypeModule
		tagged, err := c.ListTagged(ctx, tag)
		if err != nil {
			return nil, err
		}
		for _, tb := range tagged {
			rpms, err := c.ListRPMs(ctx, tb.BuildID)
			if err != nil {
				return nil, err
			}
			res.Components = append(res.Components, Component{PackageName: tb.PackageName, RPMs: rpms})
		}
		return res, nil
	}

	rpms, err := c.ListRPMs(ctx, build.ID)
	if err != nil {
		return nil, err
	}
	res.Components = []Component{{PackageName: build.PackageName, RPMs: rpms}}
	return res, nil
}

func moduleContentTag(extra map[string]interface{}) (string, bool) {
	typeinfo, ok := extra["typeinfo"].(map[string]interface{})
	if !ok {
		return "", false
	}
	module, ok := typeinfo["module"].(map[string]interface{})
	if !ok {
		return "", false
	}
	tag, ok := module["content_koji_tag"].(string)
	return tag, ok && tag != ""
}
