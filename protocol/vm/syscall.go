package vm

import "neochain/errors"

// SysCallInfo is the stack signature of a syscall: the number of
// items it pops and the number it pushes.
type SysCallInfo struct {
	Args    int
	Results int
}

// SysCalls is the fixed syscall table. Adding a syscall to the machine
// is adding an entry here and handling it in a Host.
var SysCalls = map[string]SysCallInfo{
	"Neo.Account.GetBalance":                       {2, 1},
	"Neo.Account.GetScriptHash":                    {1, 1},
	"Neo.Account.GetVotes":                         {1, 1},
	"Neo.Account.SetVotes":                         {2, 0},
	"Neo.Asset.Create":                             {7, 1},
	"Neo.Asset.GetAdmin":                           {1, 1},
	"Neo.Asset.GetAmount":                          {1, 1},
	"Neo.Asset.GetAssetId":                         {1, 1},
	"Neo.Asset.GetAssetType":                       {1, 1},
	"Neo.Asset.GetAvailable":                       {1, 1},
	"Neo.Asset.GetIssuer":                          {1, 1},
	"Neo.Asset.GetOwner":                           {1, 1},
	"Neo.Asset.GetPrecision":                       {1, 1},
	"Neo.Asset.Renew":                              {2, 1},
	"Neo.Attribute.GetData":                        {1, 1},
	"Neo.Attribute.GetUsage":                       {1, 1},
	"Neo.Block.GetTransaction":                     {2, 1},
	"Neo.Block.GetTransactionCount":                {1, 1},
	"Neo.Block.GetTransactions":                    {1, 1},
	"Neo.Blockchain.GetAccount":                    {1, 1},
	"Neo.Blockchain.GetAsset":                      {1, 1},
	"Neo.Blockchain.GetBlock":                      {1, 1},
	"Neo.Blockchain.GetContract":                   {1, 1},
	"Neo.Blockchain.GetHeader":                     {1, 1},
	"Neo.Blockchain.GetHeight":                     {0, 1},
	"Neo.Blockchain.GetTransaction":                {1, 1},
	"Neo.Blockchain.GetTransactionHeight":          {1, 1},
	"Neo.Blockchain.GetValidators":                 {0, 1},
	"Neo.Contract.Create":                          {9, 1},
	"Neo.Contract.Destroy":                         {0, 0},
	"Neo.Contract.GetScript":                       {1, 1},
	"Neo.Contract.GetStorageContext":               {1, 1},
	"Neo.Contract.Migrate":                         {9, 1},
	"Neo.Enumerator.Next":                          {1, 1},
	"Neo.Enumerator.Value":                         {1, 1},
	"Neo.Header.GetConsensusData":                  {1, 1},
	"Neo.Header.GetHash":                           {1, 1},
	"Neo.Header.GetIndex":                          {1, 1},
	"Neo.Header.GetMerkleRoot":                     {1, 1},
	"Neo.Header.GetNextConsensus":                  {1, 1},
	"Neo.Header.GetPrevHash":                       {1, 1},
	"Neo.Header.GetTimestamp":                      {1, 1},
	"Neo.Header.GetVersion":                        {1, 1},
	"Neo.Input.GetHash":                            {1, 1},
	"Neo.Input.GetIndex":                           {1, 1},
	"Neo.InvocationTransaction.GetScript":          {1, 1},
	"Neo.Iterator.Key":                             {1, 1},
	"Neo.Output.GetAssetId":                        {1, 1},
	"Neo.Output.GetScriptHash":                     {1, 1},
	"Neo.Output.GetValue":                          {1, 1},
	"Neo.Runtime.CheckWitness":                     {1, 1},
	"Neo.Runtime.Deserialize":                      {1, 1},
	"Neo.Runtime.GetTime":                          {0, 1},
	"Neo.Runtime.GetTrigger":                       {0, 1},
	"Neo.Runtime.Log":                              {1, 0},
	"Neo.Runtime.Notify":                           {1, 0},
	"Neo.Runtime.Serialize":                        {1, 1},
	"Neo.Storage.Delete":                           {2, 0},
	"Neo.Storage.Find":                             {2, 1},
	"Neo.Storage.Get":                              {2, 1},
	"Neo.Storage.GetContext":                       {0, 1},
	"Neo.Storage.GetReadOnlyContext":               {0, 1},
	"Neo.Storage.Put":                              {3, 0},
	"Neo.StorageContext.AsReadOnly":                {1, 1},
	"Neo.Transaction.GetAttributes":                {1, 1},
	"Neo.Transaction.GetHash":                      {1, 1},
	"Neo.Transaction.GetInputs":                    {1, 1},
	"Neo.Transaction.GetOutputs":                   {1, 1},
	"Neo.Transaction.GetReferences":                {1, 1},
	"Neo.Transaction.GetType":                      {1, 1},
	"Neo.Transaction.GetUnspentCoins":              {1, 1},
	"Neo.Validator.Register":                       {1, 1},
	"System.ExecutionEngine.GetCallingScriptHash":  {0, 1},
	"System.ExecutionEngine.GetEntryScriptHash":    {0, 1},
	"System.ExecutionEngine.GetExecutingScriptHash":{0, 1},
	"System.ExecutionEngine.GetScriptContainer":    {0, 1},
}

// Syscalls implemented by the machine itself rather than the host.
var nativeSysCalls = map[string]func(m *Machine, args []Item) ([]Item, error){
	"Neo.Runtime.Serialize":   sysSerialize,
	"Neo.Runtime.Deserialize": sysDeserialize,
}

func opSysCall(m *Machine) error {
	name := string(m.data)
	info, ok := SysCalls[name]
	if !ok {
		return errors.WithDetailf(ErrUnknownSysCall, "%q", name)
	}
	if info.Args > len(m.dataStack) {
		return ErrDataStackUnderflow
	}
	args := make([]Item, info.Args)
	for i := range args {
		args[i], _ = m.pop()
	}

	var (
		results []Item
		err     error
	)
	if native, ok := nativeSysCalls[name]; ok {
		results, err = native(m, args)
	} else if m.host != nil {
		results, err = m.host.SysCall(m, name, args)
	} else {
		err = errors.WithDetailf(ErrUnknownSysCall, "no host for %q", name)
	}
	if err != nil {
		return errors.Wrapf(err, "syscall %s", name)
	}
	if len(results) != info.Results {
		return errors.WithDetailf(ErrBadValue, "syscall %s returned %d items, want %d", name, len(results), info.Results)
	}
	for _, r := range results {
		if err := m.push(r); err != nil {
			return err
		}
	}
	return nil
}

func sysSerialize(m *Machine, args []Item) ([]Item, error) {
	b, err := Serialize(args[0])
	if err != nil {
		return nil, err
	}
	return []Item{ByteArray(b)}, nil
}

func sysDeserialize(m *Machine, args []Item) ([]Item, error) {
	b := Bytes(args[0])
	if b == nil {
		return nil, errors.WithDetailf(ErrBadValue, "deserialize %s", Format(args[0]))
	}
	it, err := Deserialize(b)
	if err != nil {
		return nil, err
	}
	return []Item{it}, nil
}
