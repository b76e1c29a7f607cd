// Package hosts provides the authoritative host inventory and the selector
// resolver used to expand an operator-supplied target into a concrete,
// ordered set of callsigns. It is read-only at runtime: once Load returns,
// the Inventory value never changes, matching the "owned value" redesign
// called for in the Design Notes (Global mutable inventory).
package hosts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/opsfleet/emp/errwrap"
)

// DefaultPort is used when a host record omits one.
const DefaultPort = 22

// Host is the declarative record for one fleet member. It keeps any JSON
// fields this package doesn't otherwise model (local_ip, paths, ...) in
// Extra, so that operators can carry extra per-host metadata without Load
// silently dropping it.
type Host struct {
	Callsign       string `json:"-"`
	IP             string `json:"ip"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	MasterCallsign string `json:"master_callsign,omitempty"`

	// Extra carries any fields this struct doesn't model by name (eg.
	// local_ip, paths), so that loading a host record never silently
	// drops operator-authored data. Host has no custom marshaler, so
	// encoding a Host back to JSON omits Extra.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownHostFields are the JSON keys this struct understands directly; any
// other key found on a host record is preserved in Extra.
var knownHostFields = map[string]bool{
	"ip":              true,
	"port":            true,
	"user":            true,
	"password":        true,
	"master_callsign": true,
}

// UnmarshalJSON decodes the known fields normally, and stashes everything
// else into Extra.
func (h *Host) UnmarshalJSON(data []byte) error {
	type alias Host // avoid infinite recursion into this method
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if !knownHostFields[k] {
			extra[k] = v
		}
	}

	*h = Host(a)
	if len(extra) > 0 {
		h.Extra = extra
	}
	return nil
}

// HasMaster reports whether this host is only reachable via a tunnel.
func (h Host) HasMaster() bool {
	return h.MasterCallsign != ""
}

// Addr returns the host:port string used for dialing.
func (h Host) Addr() string {
	port := h.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", h.IP, port)
}

// Inventory is the read-only, loaded set of hosts, preserving declaration
// order for the "all" selector and for deterministic fan-out.
type Inventory struct {
	order []string
	byTag map[string]Host
}

// Get returns the host record for a callsign.
func (inv *Inventory) Get(callsign string) (Host, bool) {
	h, ok := inv.byTag[callsign]
	return h, ok
}

// Has reports whether a callsign exists in the inventory.
func (inv *Inventory) Has(callsign string) bool {
	_, ok := inv.byTag[callsign]
	return ok
}

// All returns every callsign in declared order.
func (inv *Inventory) All() []string {
	out := make([]string, len(inv.order))
	copy(out, inv.order)
	return out
}

// Len returns the number of hosts in the inventory.
func (inv *Inventory) Len() int {
	return len(inv.order)
}

// Load reads and validates a hosts.json inventory file. It rejects
// configurations with a self-referential or cyclic master_callsign chain,
// or one that names a master not present in the inventory — the fix for
// the open question in the Design Notes (Cyclic inventory).
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read inventory: %s", path)
	}
	return Parse(data)
}

// Parse builds an Inventory from raw JSON, performing the same validation
// as Load. Exposed separately so tests and the commit-image-free code paths
// can build an Inventory without touching the filesystem.
//
// The inventory's top-level object keys are read in file order (not the
// random order encoding/json's map decoding would give), since the "all"
// selector is specified to return hosts in their declared order.
func Parse(data []byte) (*Inventory, error) {
	order, err := topLevelKeyOrder(data)
	if err != nil {
		return nil, errwrap.Wrapf(err, "invalid inventory JSON")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errwrap.Wrapf(err, "invalid inventory JSON")
	}

	inv := &Inventory{byTag: make(map[string]Host, len(raw)), order: order}
	for _, callsign := range order {
		var h Host
		if err := json.Unmarshal(raw[callsign], &h); err != nil {
			return nil, errwrap.Wrapf(err, "invalid host record: %s", callsign)
		}
		h.Callsign = callsign
		inv.byTag[callsign] = h
	}

	for _, callsign := range inv.order {
		if err := validateMasterChain(inv, callsign); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// topLevelKeyOrder walks the raw JSON token stream to recover the order the
// top-level object's keys were declared in, since encoding/json's map
// decoding discards it.
func topLevelKeyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a top-level JSON object")
	}

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string key")
		}
		order = append(order, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// validateMasterChain walks the master_callsign chain starting at callsign,
// failing on a self-loop, a cycle, or a reference to a host that doesn't
// exist in the inventory.
func validateMasterChain(inv *Inventory, callsign string) error {
	visited := map[string]bool{callsign: true}
	cur := callsign
	for {
		// cur is always a key of inv.byTag: it starts as callsign (a key
		// this function is called once per, below) and is only ever
		// advanced to next after next is confirmed present, below.
		h := inv.byTag[cur]
		if !h.HasMaster() {
			return nil
		}
		if h.MasterCallsign == cur {
			return fmt.Errorf("host %q is its own master", cur)
		}
		next := h.MasterCallsign
		if _, ok := inv.byTag[next]; !ok {
			return fmt.Errorf("host %q has unknown master %q", cur, next)
		}
		if visited[next] {
			return fmt.Errorf("cyclic master chain detected starting at %q", callsign)
		}
		visited[next] = true
		cur = next
	}
}
