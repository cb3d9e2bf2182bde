package rpmpkg

import "sync"

// Package is a downloaded or copied RPM file and its header.
type Package struct {
	Path   string
	Header *Header
}

// Peer pairs the before and after builds of one subpackage. Either side may
// be nil: a nil Before is a new subpackage, a nil After a removed one.
type Peer struct {
	Before *Package
	After  *Package
}

// Peers is the ordered peer list for a run. After packages are expected to be
// added before their before counterparts so the pairing can be made by name
// and architecture.
type Peers struct {
	mu    sync.Mutex
	items []*Peer
}

// NewPeers returns an empty peer list.
func NewPeers() *Peers {
	return &Peers{}
}

// AddAfter records pkg as a package of the after build.
func (p *Peers) AddAfter(pkg *Package) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, &Peer{After: pkg})
}

// AddBefore pairs pkg with the after package of the same name and arch, or
// records it alone when the after build does not carry it.
func (p *Peers) AddBefore(pkg *Package) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, peer := range p.items {
		if peer.Before != nil || peer.After == nil {
			continue
		}
		if peer.After.Header.Name == pkg.Header.Name && peer.After.Header.Arch == pkg.Header.Arch {
			peer.Before = pkg
			return
		}
	}
	p.items = append(p.items, &Peer{Before: pkg})
}

// All returns the peers in insertion order.
func (p *Peers) All() []*Peer {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Peer, len(p.items))
	copy(out, p.items)
	return out
}

// Len returns the number of peers.
func (p *Peers) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
