// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/proofminer/util"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// the ZAP handler is shared by every CURVE socket in the process
var (
	authOnce  sync.Once
	authError error
)

func startAuthentication() error {
	authOnce.Do(func() {
		zmq.AuthSetVerbose(false)
		authError = zmq.AuthStart()
	})
	return authError
}

// NewBind - bind a list of endpoints
//
// creates up to 2 sockets for separate IPv4 and IPv6 traffic; a nil
// privateKey gives plain sockets instead of CURVE servers
func NewBind(log *logger.L, socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, listen []*util.Endpoint) (*zmq.Socket, *zmq.Socket, error) {
	socket4 := (*zmq.Socket)(nil) // IPv4 traffic
	socket6 := (*zmq.Socket)(nil) // IPv6 traffic

	fail := func(err error) (*zmq.Socket, *zmq.Socket, error) {
		if nil != socket4 {
			socket4.Close()
		}
		if nil != socket6 {
			socket6.Close()
		}
		return nil, nil, err
	}

	for i, address := range listen {
		v6 := address.IsIPv6()
		socket := &socket4
		if v6 {
			socket = &socket6
		}

		if nil == *socket {
			s, err := NewServerSocket(socketType, zapDomain, privateKey, publicKey, v6)
			if nil != err {
				return fail(err)
			}
			*socket = s
		}

		bindTo := address.URL("tcp://")
		if err := (*socket).Bind(bindTo); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			return fail(err)
		}
		log.Infof("bind[%d]: %q  IPv6: %t", i, bindTo, v6)
	}
	return socket4, socket6, nil
}

// NewServerSocket - create a socket suitable for a server side connection
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, v6 bool) (*zmq.Socket, error) {
	if nil != privateKey {
		if err := startAuthentication(); nil != err {
			return nil, err
		}
	}

	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if nil != privateKey {
		// allow any client to connect
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

		socket.SetCurveServer(1)
		socket.SetCurveSecretkey(string(privateKey))
		socket.SetZapDomain(zapDomain)
		socket.SetIdentity(string(publicKey)) // just use public key for identity
	}

	socket.SetIpv6(v6)
	socket.SetLinger(0)

	socket.SetHeartbeatIvl(heartbeatInterval)
	socket.SetHeartbeatTimeout(heartbeatTimeout)
	socket.SetHeartbeatTtl(heartbeatTTL)

	return socket, nil
}
