package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	assert.Equal(t, "localhost:50051", Target("", "auth-service", "localhost:50051"))
	assert.Equal(t,
		"consul://consul:8500/auth-service?healthy=true",
		Target("consul:8500", "auth-service", "localhost:50051"),
	)
}

func TestServiceRegistration(t *testing.T) {
	reg := Registration{Name: "auth-service", Host: "10.0.0.5", Port: 50051}
	out := serviceRegistration(reg)

	assert.Equal(t, "auth-service-10.0.0.5:50051", out.ID)
	assert.Equal(t, "auth-service", out.Name)
	assert.Equal(t, 50051, out.Port)
	assert.Equal(t, "10.0.0.5:50051", out.Check.GRPC)
}
