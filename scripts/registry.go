// Package scripts holds the fixed set of transaction script templates a
// deployment permits.
//
// Every template is a WebAssembly module that imports one function from the
// account module and exports main, which forwards its parameters to that
// function. The registry is assembled once at package initialisation and is
// read-only afterwards; accessors hand out copies.
package scripts

import (
	"encoding/hex"
)

// Name identifies a script template.
type Name string

const (
	PeerToPeer              Name = "peer_to_peer_transaction"
	CreateAccount           Name = "create_account_transaction"
	Mint                    Name = "mint_transaction"
	RotateAuthenticationKey Name = "rotate_authentication_key_transaction"
)

// AccountModule is the host module every template calls into.
const AccountModule = "LibraAccount"

// EntryPoint is the exported function of every template.
const EntryPoint = "main"

// Template is a named script template.
type Template struct {
	Name Name
	// Function is the account module function main calls.
	Function string
	// Params is the signature of main and of Function.
	Params []ValueType
	code   []byte
	hex    string
}

// Code returns a copy of the template bytecode.
func (t Template) Code() []byte {
	out := make([]byte, len(t.code))
	copy(out, t.code)
	return out
}

// Hex returns the lowercase hex encoding of the template bytecode.
func (t Template) Hex() string {
	return t.hex
}

// AllowedScripts is the JSON view of the registry. Field order is the
// order of the keys on output.
type AllowedScripts struct {
	PeerToPeer              string `json:"peer_to_peer_transaction"`
	CreateAccount           string `json:"create_account_transaction"`
	Mint                    string `json:"mint_transaction"`
	RotateAuthenticationKey string `json:"rotate_authentication_key_transaction"`
}

var registry = []Template{
	newTemplate(PeerToPeer, "pay_from_sender", I32, I64),
	newTemplate(CreateAccount, "create_new_account", I32, I64),
	newTemplate(Mint, "mint_to_address", I32, I64),
	newTemplate(RotateAuthenticationKey, "rotate_authentication_key", I32, I32),
}

var allowed = AllowedScripts{
	PeerToPeer:              mustLookup(PeerToPeer).hex,
	CreateAccount:           mustLookup(CreateAccount).hex,
	Mint:                    mustLookup(Mint).hex,
	RotateAuthenticationKey: mustLookup(RotateAuthenticationKey).hex,
}

func newTemplate(name Name, function string, params ...ValueType) Template {
	sig := FuncType{Params: params}
	var body []byte
	for i := range params {
		body = append(body, LocalGet(uint32(i))...)
	}
	body = append(body, Call(0)...)

	m := Module{
		Imports:      []Import{{Module: AccountModule, Name: function, Type: sig}},
		MemoryImport: &MemoryImport{Module: "env", Name: "memory", MinPages: 1},
		Funcs:        []Func{{Export: EntryPoint, Type: sig, Body: body}},
	}
	code := m.MustEncode()
	return Template{
		Name:     name,
		Function: function,
		Params:   params,
		code:     code,
		hex:      hex.EncodeToString(code),
	}
}

func mustLookup(name Name) Template {
	t, ok := Lookup(name)
	if !ok {
		panic("scripts: missing template " + string(name))
	}
	return t
}

// Lookup returns the template registered under name.
func Lookup(name Name) (Template, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// All returns the templates in registry order.
func All() []Template {
	out := make([]Template, len(registry))
	for i, t := range registry {
		t.Params = append([]ValueType(nil), t.Params...)
		out[i] = t
	}
	return out
}

// Allowed returns the JSON view of the registry.
func Allowed() AllowedScripts {
	return allowed
}

// PeerToPeerCode returns a copy of the peer-to-peer transfer script.
func PeerToPeerCode() []byte {
	return mustLookup(PeerToPeer).Code()
}
