// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/proofminer/fault"
)

// Endpoint - a canonical IP:Port
type Endpoint struct {
	address string
	v6      bool
}

// NewEndpoint - make the IP:Port canonical
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func NewEndpoint(hostPort string) (*Endpoint, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return nil, fault.ErrInvalidIPAddress
	}

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return nil, fault.ErrInvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return nil, fault.ErrInvalidPortNumber
	}

	if nil != IP.To4() {
		return &Endpoint{
			address: IP.String() + ":" + strconv.Itoa(numericPort),
		}, nil
	}
	return &Endpoint{
		address: "[" + IP.String() + "]:" + strconv.Itoa(numericPort),
		v6:      true,
	}, nil
}

// NewEndpoints - convert a list of IP:Port strings
func NewEndpoints(hostPorts []string) ([]*Endpoint, error) {
	endpoints := make([]*Endpoint, 0, len(hostPorts))
	for _, hp := range hostPorts {
		e, err := NewEndpoint(hp)
		if nil != err {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

// String - canonical IP:Port
func (e *Endpoint) String() string {
	return e.address
}

// IsIPv6 - true for an IPv6 address
func (e *Endpoint) IsIPv6() bool {
	return e.v6
}

// URL - address with a scheme prefix such as "tcp://"
func (e *Endpoint) URL(prefix string) string {
	return prefix + e.address
}
