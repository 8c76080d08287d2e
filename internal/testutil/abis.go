package testutil

const simpleStorageABI = `[
  {"type":"function","name":"store","stateMutability":"nonpayable","inputs":[{"name":"_favoriteNumber","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"retrieve","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"addPerson","stateMutability":"nonpayable","inputs":[{"name":"_name","type":"string"},{"name":"_favoriteNumber","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"nameToFavoriteNumber","stateMutability":"view","inputs":[{"name":"","type":"string"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const mockV3AggregatorABI = `[
  {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"_decimals","type":"uint8"},{"name":"_initialAnswer","type":"int256"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"latestAnswer","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"int256"}]},
  {"type":"function","name":"latestRoundData","stateMutability":"view","inputs":[],"outputs":[
    {"name":"roundId","type":"uint80"},{"name":"answer","type":"int256"},{"name":"startedAt","type":"uint256"},
    {"name":"updatedAt","type":"uint256"},{"name":"answeredInRound","type":"uint80"}]},
  {"type":"function","name":"updateAnswer","stateMutability":"nonpayable","inputs":[{"name":"_answer","type":"int256"}],"outputs":[]}
]`

const fundMeABI = `[
  {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"priceFeed","type":"address"}]},
  {"type":"error","name":"FundMe__NotOwner","inputs":[]},
  {"type":"function","name":"fund","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"cheaperWithdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"getFunder","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getAddressToAmountFunded","stateMutability":"view","inputs":[{"name":"funder","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getOwner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getPriceFeed","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"MINIMUM_USD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"receive","stateMutability":"payable"},
  {"type":"fallback","stateMutability":"payable"}
]`

const raffleABI = `[
  {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"entranceFee","type":"uint256"},{"name":"interval","type":"uint256"}]},
  {"type":"error","name":"Raffle__SendMoreToEnterRaffle","inputs":[]},
  {"type":"error","name":"Raffle__RaffleNotOpen","inputs":[]},
  {"type":"error","name":"Raffle__UpkeepNotNeeded","inputs":[{"name":"currentBalance","type":"uint256"},{"name":"numPlayers","type":"uint256"},{"name":"raffleState","type":"uint256"}]},
  {"type":"event","name":"RaffleEnter","anonymous":false,"inputs":[{"name":"player","type":"address","indexed":true}]},
  {"type":"event","name":"RequestedRaffleWinner","anonymous":false,"inputs":[{"name":"requestId","type":"uint256","indexed":true}]},
  {"type":"function","name":"enterRaffle","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"checkUpkeep","stateMutability":"view","inputs":[{"name":"","type":"bytes"}],"outputs":[{"name":"upkeepNeeded","type":"bool"},{"name":"","type":"bytes"}]},
  {"type":"function","name":"performUpkeep","stateMutability":"nonpayable","inputs":[{"name":"","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"getEntranceFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getInterval","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getPlayer","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getNumberOfPlayers","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getRaffleState","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"getLastTimeStamp","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`
