// Package discovery registers services in Consul and builds resolvable targets for them.
package discovery

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// Registration describes a gRPC service instance announced to Consul.
type Registration struct {
	Name string
	Host string
	Port int
}

// ID returns the unique instance id used for registration.
func (r Registration) ID() string {
	return fmt.Sprintf("%s-%s", r.Name, net.JoinHostPort(r.Host, strconv.Itoa(r.Port)))
}

// Registry announces and withdraws service instances.
type Registry struct {
	client *consulapi.Client
}

// NewRegistry connects to the Consul agent at addr.
func NewRegistry(addr string) (*Registry, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &Registry{client: client}, nil
}

// Register announces the instance with a gRPC health check.
func (r *Registry) Register(reg Registration) error {
	return r.client.Agent().ServiceRegister(serviceRegistration(reg))
}

// Deregister withdraws the instance.
func (r *Registry) Deregister(reg Registration) error {
	return r.client.Agent().ServiceDeregister(reg.ID())
}

func serviceRegistration(reg Registration) *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      reg.ID(),
		Name:    reg.Name,
		Address: reg.Host,
		Port:    reg.Port,
		Check: &consulapi.AgentServiceCheck{
			GRPC:                           net.JoinHostPort(reg.Host, strconv.Itoa(reg.Port)),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Target returns the gRPC dial target for a service. With a Consul address the
// target uses the consul:// scheme served by grpc-consul-resolver; otherwise
// fallback is dialed directly.
func Target(consulAddr, service, fallback string) string {
	if consulAddr == "" {
		return fallback
	}
	return fmt.Sprintf("consul://%s/%s?healthy=true", consulAddr, service)
}
