package hosts

import "testing"

const sampleInventory = `{
	"bastion": {"ip": "10.0.0.1", "port": 22, "user": "root", "password": "x"},
	"db1": {"ip": "10.0.1.1", "port": 22, "user": "root", "password": "x", "master_callsign": "bastion"},
	"db2": {"ip": "10.0.1.2", "port": 22, "user": "root", "password": "x", "master_callsign": "bastion", "local_ip": "192.168.1.2"}
}`

func TestParseOrder(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"bastion", "db1", "db2"}
	got := inv.All()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParsePreservesUnknownFields(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h, ok := inv.Get("db2")
	if !ok {
		t.Fatal("expected db2 to exist")
	}
	if _, ok := h.Extra["local_ip"]; !ok {
		t.Errorf("expected local_ip to survive in Extra, got %v", h.Extra)
	}
}

func TestParseGetHas(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !inv.Has("bastion") {
		t.Error("expected bastion to exist")
	}
	if inv.Has("nope") {
		t.Error("expected nope to not exist")
	}
	h, ok := inv.Get("db1")
	if !ok || h.MasterCallsign != "bastion" {
		t.Errorf("unexpected db1 record: %+v", h)
	}
}

func TestParseRejectsSelfMaster(t *testing.T) {
	_, err := Parse([]byte(`{"a": {"ip": "1.1.1.1", "port": 22, "user": "u", "password": "p", "master_callsign": "a"}}`))
	if err == nil {
		t.Fatal("expected an error for a host that is its own master")
	}
}

func TestParseRejectsCycle(t *testing.T) {
	data := `{
		"a": {"ip": "1.1.1.1", "port": 22, "user": "u", "password": "p", "master_callsign": "b"},
		"b": {"ip": "1.1.1.2", "port": 22, "user": "u", "password": "p", "master_callsign": "a"}
	}`
	_, err := Parse([]byte(data))
	if err == nil {
		t.Fatal("expected an error for a cyclic master chain")
	}
}

func TestParseRejectsUnknownMaster(t *testing.T) {
	_, err := Parse([]byte(`{"a": {"ip": "1.1.1.1", "port": 22, "user": "u", "password": "p", "master_callsign": "ghost"}}`))
	if err == nil {
		t.Fatal("expected an error for an unknown master")
	}
}

func TestHostAddrDefaultPort(t *testing.T) {
	h := Host{IP: "10.0.0.5"}
	if got, want := h.Addr(), "10.0.0.5:22"; got != want {
		t.Errorf("Addr() = %s, want %s", got, want)
	}
}
