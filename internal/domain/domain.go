package domain

// Block is the Ethereum-shaped block the relay returns for
// eth_getBlockByHash / eth_getBlockByNumber. Transactions holds either
// hashes or full Transaction values depending on the showDetails flag the
// caller supplied; callers type-switch on Transactions' element type.
type Block struct {
	Number           string        `json:"number"`
	Hash             string        `json:"hash"`
	ParentHash       string        `json:"parentHash"`
	Timestamp        string        `json:"timestamp"`
	GasLimit         string        `json:"gasLimit"`
	GasUsed          string        `json:"gasUsed"`
	BaseFeePerGas    string        `json:"baseFeePerGas"`
	Transactions     []interface{} `json:"transactions"`
	TransactionsRoot string        `json:"transactionsRoot"`

	// Constant-valued fields the ledger does not populate.
	Difficulty      string   `json:"difficulty"`
	MixHash         string   `json:"mixHash"`
	Nonce           string   `json:"nonce"`
	Sha3Uncles      string   `json:"sha3Uncles"`
	ReceiptsRoot    string   `json:"receiptsRoot"`
	StateRoot       string   `json:"stateRoot"`
	Uncles          []string `json:"uncles"`
	ExtraData       string   `json:"extraData"`
	LogsBloom       string   `json:"logsBloom"`
	Size            string   `json:"size"`
	TotalDifficulty string   `json:"totalDifficulty"`
}

// Transaction is the Ethereum transaction shape returned by
// eth_getTransactionByHash and friends.
type Transaction struct {
	Hash                 string  `json:"hash"`
	BlockHash            string  `json:"blockHash"`
	BlockNumber          string  `json:"blockNumber"`
	From                 string  `json:"from"`
	To                   *string `json:"to"`
	Nonce                string  `json:"nonce"`
	Value                string  `json:"value"`
	Gas                  string  `json:"gas"`
	GasPrice             string  `json:"gasPrice"`
	Input                string  `json:"input"`
	TransactionIndex     string  `json:"transactionIndex"`
	Type                 string  `json:"type"`
	ChainId              string  `json:"chainId"`
	V                    string  `json:"v"`
	R                    string  `json:"r"`
	S                    string  `json:"s"`
	MaxFeePerGas         *string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *string `json:"maxPriorityFeePerGas,omitempty"`
	// AccessList is always absent: the underlying ledger never populates it.
}

// Log is the Ethereum log shape returned inline in receipts and from
// eth_getLogs.
type Log struct {
	Address          string   `json:"address"`
	BlockHash        string   `json:"blockHash"`
	BlockNumber      string   `json:"blockNumber"`
	Data             string   `json:"data"`
	LogIndex         string   `json:"logIndex"`
	Removed          bool     `json:"removed"`
	Topics           []string `json:"topics"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
}

// TransactionReceipt is the Ethereum receipt shape returned by
// eth_getTransactionReceipt.
type TransactionReceipt struct {
	BlockHash         string  `json:"blockHash"`
	BlockNumber       string  `json:"blockNumber"`
	From              string  `json:"from"`
	To                *string `json:"to"`
	CumulativeGasUsed string  `json:"cumulativeGasUsed"`
	GasUsed           string  `json:"gasUsed"`
	ContractAddress   *string `json:"contractAddress"`
	Logs              []Log   `json:"logs"`
	LogsBloom         string  `json:"logsBloom"`
	TransactionHash   string  `json:"transactionHash"`
	TransactionIndex  string  `json:"transactionIndex"`
	EffectiveGasPrice string  `json:"effectiveGasPrice"`
	Root              string  `json:"root"`
	Status            string  `json:"status"`
}

// FeeHistoryResult is the eth_feeHistory response shape.
type FeeHistoryResult struct {
	OldestBlock   string     `json:"oldestBlock"`
	BaseFeePerGas []string   `json:"baseFeePerGas"`
	GasUsedRatio  []*float64 `json:"gasUsedRatio"`
	Reward        [][]string `json:"reward,omitempty"`
}

// LogParams are the positional/range filters accepted by eth_getLogs.
type LogParams struct {
	BlockHash string
	FromBlock string
	ToBlock   string
	Address   []string
	Topics    [4][]string
}

// CallObject is the eth_call / eth_estimateGas transaction-call argument.
type CallObject struct {
	From     *string
	To       *string
	Gas      *string
	GasPrice *string
	Value    *string
	Data     *string
}
