package syscall

// Blockchain interface names. Values of these types are interop
// handles returned by the host.
const (
	AccountBase                = "AccountBase"
	AssetBase                  = "AssetBase"
	AttributeBase              = "AttributeBase"
	BlockBase                  = "BlockBase"
	ContractBase               = "ContractBase"
	HeaderBase                 = "HeaderBase"
	InputBase                  = "InputBase"
	OutputBase                 = "OutputBase"
	TransactionBase            = "TransactionBase"
	ValidatorBase              = "ValidatorBase"
	StorageContextBase         = "StorageContextBase"
	StorageContextReadOnlyBase = "StorageContextReadOnlyBase"
	StorageIteratorBase        = "StorageIteratorBase"
)

// Interfaces lists every blockchain interface name.
var Interfaces = []string{
	AccountBase, AssetBase, AttributeBase, BlockBase, ContractBase,
	HeaderBase, InputBase, OutputBase, TransactionBase, ValidatorBase,
	StorageContextBase, StorageContextReadOnlyBase, StorageIteratorBase,
}

var (
	account        = Interface(AccountBase)
	asset          = Interface(AssetBase)
	attribute      = Interface(AttributeBase)
	block          = Interface(BlockBase)
	contract       = Interface(ContractBase)
	header         = Interface(HeaderBase)
	input          = Interface(InputBase)
	output         = Interface(OutputBase)
	transaction    = Interface(TransactionBase)
	validator      = Interface(ValidatorBase)
	storageContext = Interface(StorageContextBase)
	readOnlyCtx    = Interface(StorageContextReadOnlyBase)
	iterator       = Interface(StorageIteratorBase)

	// StorageKey is the type of storage keys and prefixes.
	StorageKey = Union(Buffer, String)

	// StorageValue is the type of values read by iterators.
	StorageValue = Union(Buffer, Number, String, Boolean)

	anyContext  = Union(storageContext, readOnlyCtx)
	blockOrHead = Union(block, header)
	hashOrIndex = Union(Buffer, Number)
)

func arg(name string, t Type) Argument { return Argument{name, t} }

func getter(name string, in Argument, result Type) *SysCall {
	return &SysCall{Name: name, Args: []Argument{in}, Result: result}
}

func init() {
	contractArgs := []Argument{
		arg("script", Buffer),
		arg("parameterList", Buffer),
		arg("returnType", Number),
		arg("properties", Number),
		arg("contractName", String),
		arg("codeVersion", String),
		arg("author", String),
		arg("email", String),
		arg("description", String),
	}
	bh := arg("blockOrHeader", blockOrHead)
	tx := arg("transaction", transaction)

	for _, s := range []*SysCall{
		{Name: "Neo.Runtime.GetTrigger", Result: Number},
		{Name: "Neo.Runtime.CheckWitness", Args: []Argument{arg("witness", Buffer)}, Result: Boolean},
		{Name: "Neo.Runtime.Notify", Rest: &Argument{"args", notifyValue}},
		{Name: "Neo.Runtime.Log", Args: []Argument{arg("value", String)}},
		{Name: "Neo.Runtime.GetTime", Result: Number},
		{Name: "Neo.Runtime.Serialize", Args: []Argument{arg("value", Serializable)}, Result: Buffer},
		{Name: "Neo.Runtime.Deserialize", Args: []Argument{arg("value", Buffer)}, Result: Serializable},
		{
			Name:   "Neo.Runtime.Call",
			Args:   []Argument{arg("hash", Buffer), arg("method", String)},
			Rest:   &Argument{"args", Serializable.Raw()},
			Result: Serializable.Raw(),
			handle: handleAppCall,
		},

		{Name: "Neo.Blockchain.GetHeight", Result: Number},
		getter("Neo.Blockchain.GetHeader", arg("hashOrIndex", hashOrIndex), header),
		getter("Neo.Blockchain.GetBlock", arg("hashOrIndex", hashOrIndex), block),
		getter("Neo.Blockchain.GetTransaction", arg("hash", Buffer), transaction),
		getter("Neo.Blockchain.GetTransactionHeight", arg("hash", Buffer), Number),
		getter("Neo.Blockchain.GetAccount", arg("hash", Buffer), account),
		{Name: "Neo.Blockchain.GetValidators", Result: Array(Buffer)},
		getter("Neo.Blockchain.GetAsset", arg("hash", Buffer), asset),
		getter("Neo.Blockchain.GetContract", arg("hash", Buffer), contract),

		getter("Neo.Header.GetHash", bh, Buffer),
		getter("Neo.Header.GetVersion", bh, Number),
		getter("Neo.Header.GetPrevHash", bh, Buffer),
		getter("Neo.Header.GetIndex", bh, Number),
		getter("Neo.Header.GetMerkleRoot", bh, Buffer),
		getter("Neo.Header.GetTimestamp", bh, Number),
		getter("Neo.Header.GetConsensusData", bh, Number),
		getter("Neo.Header.GetNextConsensus", bh, Buffer),

		getter("Neo.Block.GetTransactionCount", arg("block", block), Number),
		getter("Neo.Block.GetTransactions", arg("block", block), Array(transaction)),
		{Name: "Neo.Block.GetTransaction", Args: []Argument{arg("block", block), arg("index", Number)}, Result: transaction},

		getter("Neo.Transaction.GetHash", tx, Buffer),
		getter("Neo.Transaction.GetType", tx, Number),
		getter("Neo.Transaction.GetAttributes", tx, Array(attribute)),
		getter("Neo.Transaction.GetInputs", tx, Array(input)),
		getter("Neo.Transaction.GetOutputs", tx, Array(output)),
		getter("Neo.Transaction.GetReferences", tx, Array(output)),
		getter("Neo.Transaction.GetUnspentCoins", tx, Array(output)),
		getter("Neo.InvocationTransaction.GetScript", tx, Buffer),

		getter("Neo.Attribute.GetUsage", arg("attribute", attribute), Number),
		getter("Neo.Attribute.GetData", arg("attribute", attribute), Buffer),
		getter("Neo.Input.GetHash", arg("input", input), Buffer),
		getter("Neo.Input.GetIndex", arg("input", input), Number),
		getter("Neo.Output.GetAssetId", arg("output", output), Buffer),
		getter("Neo.Output.GetValue", arg("output", output), Number),
		getter("Neo.Output.GetScriptHash", arg("output", output), Buffer),

		getter("Neo.Account.GetScriptHash", arg("account", account), Buffer),
		getter("Neo.Account.GetVotes", arg("account", account), Array(Buffer)),
		{Name: "Neo.Account.GetBalance", Args: []Argument{arg("account", account), arg("assetHash", Buffer)}, Result: Number},
		{Name: "Neo.Account.SetVotes", Args: []Argument{arg("account", account), arg("votes", Array(Buffer))}},

		getter("Neo.Asset.GetAssetId", arg("asset", asset), Buffer),
		getter("Neo.Asset.GetAssetType", arg("asset", asset), Number),
		getter("Neo.Asset.GetAmount", arg("asset", asset), Number),
		getter("Neo.Asset.GetAvailable", arg("asset", asset), Number),
		getter("Neo.Asset.GetPrecision", arg("asset", asset), Number),
		getter("Neo.Asset.GetOwner", arg("asset", asset), Buffer),
		getter("Neo.Asset.GetAdmin", arg("asset", asset), Buffer),
		getter("Neo.Asset.GetIssuer", arg("asset", asset), Buffer),
		{
			Name: "Neo.Asset.Create",
			Args: []Argument{
				arg("assetType", Number),
				arg("assetName", String),
				arg("amount", Number),
				arg("precision", Number),
				arg("owner", Buffer),
				arg("admin", Buffer),
				arg("issuer", Buffer),
			},
			Result: asset,
		},
		{Name: "Neo.Asset.Renew", Args: []Argument{arg("asset", asset), arg("years", Number)}, Result: Number},

		getter("Neo.Contract.GetScript", arg("contract", contract), Buffer),
		getter("Neo.Contract.GetStorageContext", arg("contract", contract), storageContext),
		{Name: "Neo.Contract.Create", Args: contractArgs, Result: contract},
		{Name: "Neo.Contract.Migrate", Args: contractArgs, Result: contract},
		{Name: "Neo.Contract.Destroy"},
		getter("Neo.Validator.Register", arg("publicKey", Buffer), validator),

		{Name: "Neo.Storage.GetContext", Result: storageContext},
		{Name: "Neo.Storage.GetReadOnlyContext", Result: readOnlyCtx},
		getter("Neo.StorageContext.AsReadOnly", arg("context", storageContext), readOnlyCtx),
		{
			Name:   "Neo.Storage.Get",
			Args:   []Argument{arg("context", anyContext), arg("key", StorageKey)},
			Result: Serializable.AddSerialize().HandleNull(),
		},
		{Name: "Neo.Storage.Find", Args: []Argument{arg("context", anyContext), arg("prefix", StorageKey)}, Result: iterator},
		{
			Name: "Neo.Storage.Put",
			Args: []Argument{arg("context", storageContext), arg("key", StorageKey), arg("value", Serializable.AddSerialize())},
		},
		{Name: "Neo.Storage.Delete", Args: []Argument{arg("context", storageContext), arg("key", StorageKey)}},
		getter("Neo.Enumerator.Next", arg("iterator", iterator), Boolean),
		getter("Neo.Iterator.Key", arg("iterator", iterator), StorageKey),
		getter("Neo.Enumerator.Value", arg("iterator", iterator), StorageValue),

		{Name: "System.ExecutionEngine.GetScriptContainer", Result: transaction},
		{Name: "System.ExecutionEngine.GetExecutingScriptHash", Result: Buffer},
		{Name: "System.ExecutionEngine.GetCallingScriptHash", Result: Buffer},
		{Name: "System.ExecutionEngine.GetEntryScriptHash", Result: Buffer},
	} {
		register(s)
	}
}
