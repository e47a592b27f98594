package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// eventHashAdded is the contract's upload event.
const eventHashAdded = "HashAdded"

// Read-only contract functions.
const (
	methodCountExporters  = "countExporters"
	methodCountHashes     = "countHashes"
	methodFindDocHash     = "findDocHash"
	methodGetExporterInfo = "getExporterInfo"
	methodOwner           = "owner"
)

// RegistryABI is the interface of the deployed document registry contract.
const RegistryABI = `[
  {"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
  {"anonymous":false,"inputs":[
    {"indexed":true,"internalType":"address","name":"exporter","type":"address"},
    {"indexed":false,"internalType":"string","name":"ipfsHash","type":"string"}
  ],"name":"HashAdded","type":"event"},
  {"inputs":[
    {"internalType":"bytes32","name":"_hash","type":"bytes32"},
    {"internalType":"string","name":"_ipfs","type":"string"}
  ],"name":"addDocHash","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[
    {"internalType":"address","name":"_addr","type":"address"},
    {"internalType":"string","name":"_info","type":"string"}
  ],"name":"addExporter","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[
    {"internalType":"address","name":"_addr","type":"address"},
    {"internalType":"string","name":"_newInfo","type":"string"}
  ],"name":"alterExporter","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[
    {"internalType":"address","name":"_newOwner","type":"address"}
  ],"name":"changeOwner","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"countExporters","outputs":[
    {"internalType":"uint16","name":"","type":"uint16"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"countHashes","outputs":[
    {"internalType":"uint16","name":"","type":"uint16"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[
    {"internalType":"address","name":"_addr","type":"address"}
  ],"name":"deleteExporter","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[
    {"internalType":"bytes32","name":"_hash","type":"bytes32"}
  ],"name":"deleteHash","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[
    {"internalType":"bytes32","name":"_hash","type":"bytes32"}
  ],"name":"findDocHash","outputs":[
    {"internalType":"uint256","name":"","type":"uint256"},
    {"internalType":"uint256","name":"","type":"uint256"},
    {"internalType":"string","name":"","type":"string"},
    {"internalType":"string","name":"","type":"string"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[
    {"internalType":"address","name":"_addr","type":"address"}
  ],"name":"getExporterInfo","outputs":[
    {"internalType":"string","name":"","type":"string"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"owner","outputs":[
    {"internalType":"address","name":"","type":"address"}
  ],"stateMutability":"view","type":"function"}
]`

// ParseRegistryABI parses RegistryABI.
func ParseRegistryABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(RegistryABI))
}
