package dns_tools

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// protocolICMP is the IANA protocol number for ICMP, needed by icmp.ParseMessage.
const protocolICMP = 1

// defaultProbeTimeout bounds a single echo round trip when the caller's
// context carries no deadline of its own.
const defaultProbeTimeout = 3 * time.Second

// LivenessInfo extends AddressInfo with the result of a reachability probe.
type LivenessInfo struct {
	AddressInfo
	IsAlive bool `json:"isAlive"` // IsAlive is false whenever the domain did not resolve.
}

// ProbeFunc sends one reachability probe to an IP address and returns an
// error when the host did not answer.
type ProbeFunc func(ctx context.Context, ip string) error

// Prober checks whether a resolved address answers a reachability probe.
type Prober struct {
	probe ProbeFunc
}

// NewProber returns a Prober that sends a single ICMP echo request over an
// unprivileged datagram socket.
func NewProber() *Prober {
	return &Prober{probe: icmpEcho}
}

// NewProberWithProbe returns a Prober backed by a custom probe function.
func NewProberWithProbe(probe ProbeFunc) *Prober {
	return &Prober{probe: probe}
}

// Probe sends one reachability probe to the resolved address. An unresolved
// address is never probed and reports IsAlive=false immediately. Probe
// failures are logged and reported as IsAlive=false, never as errors.
func (p *Prober) Probe(ctx context.Context, addr AddressInfo) LivenessInfo {
	info := LivenessInfo{AddressInfo: addr}
	if !addr.Resolved {
		return info
	}

	if err := p.probe(ctx, addr.IP); err != nil {
		log.Printf("Liveness probe failed for domain: %s (%s): %v\n", addr.Domain, addr.IP, err)
		return info
	}

	info.IsAlive = true
	return info
}

// icmpEcho sends a single ICMP echo request and waits for the matching reply.
func icmpEcho(ctx context.Context, ip string) error {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return fmt.Errorf("failed to open ICMP socket: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultProbeTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  1,
			Data: []byte("domainscout liveness probe"),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return err
	}

	if _, err := conn.WriteTo(wire, &net.UDPAddr{IP: net.ParseIP(ip)}); err != nil {
		return err
	}

	reply := make([]byte, 1500)
	n, _, err := conn.ReadFrom(reply)
	if err != nil {
		return err
	}

	parsed, err := icmp.ParseMessage(protocolICMP, reply[:n])
	if err != nil {
		return err
	}
	if parsed.Type != ipv4.ICMPTypeEchoReply {
		return fmt.Errorf("unexpected ICMP message type: %v", parsed.Type)
	}
	return nil
}
