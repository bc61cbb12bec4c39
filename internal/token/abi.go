package token

// ABI fragments for the FORTUNE token and the bonding curve router, limited
// to the methods the oracle actually calls.
const fortuneTokenABI = `[
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"buyTokens","stateMutability":"payable","inputs":[{"name":"minTokens","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"sellTokens","stateMutability":"nonpayable","inputs":[{"name":"tokenAmount","type":"uint256"},{"name":"minEth","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getBuyPrice","stateMutability":"view","inputs":[{"name":"tokenAmount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getSellPrice","stateMutability":"view","inputs":[{"name":"tokenAmount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"currentPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"marketCap","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

const bondingCurveRouterABI = `[
  {"type":"function","name":"createToken","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"metadataURI","type":"string"},{"name":"initialBuyAmount","type":"uint256"}],"outputs":[{"name":"tokenAddress","type":"address"}]},
  {"type":"event","name":"TokenCreated","anonymous":false,"inputs":[{"name":"tokenAddress","type":"address","indexed":false}]}
]`
